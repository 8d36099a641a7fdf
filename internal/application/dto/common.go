package dto

// Límites de paginación del historial de asientos.
const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// PageRequest paginación por query (?limit=&offset=).
type PageRequest struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}

// DefaultPage acota Limit a [1, MaxLimit] (0 = DefaultLimit) y Offset a >= 0.
func (p *PageRequest) DefaultPage() {
	switch {
	case p.Limit <= 0:
		p.Limit = DefaultLimit
	case p.Limit > MaxLimit:
		p.Limit = MaxLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}

// TransactionPage página del historial de un producto, más reciente primero.
type TransactionPage struct {
	Limit        int               `json:"limit"`
	Offset       int               `json:"offset"`
	Transactions []*TransactionDTO `json:"transactions"`
}

// ErrorResponse cuerpo de error HTTP. Code es estable (INSUFFICIENT_STOCK, INVALID_TRANSITION...).
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
