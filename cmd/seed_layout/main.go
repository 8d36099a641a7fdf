// seed_layout genera un script SQL idempotente con bodegas, zonas, ubicaciones, stock inicial
// y pedidos de prueba a partir de un layout YAML.
//
// Uso: go run ./cmd/seed_layout [ruta/layout.yaml] [codificación] [salida.sql]
// Por defecto lee layout.yaml en UTF-8. La codificación acepta "latin1" para archivos exportados
// desde hojas de cálculo. Sin salida escribe en stdout.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/jhoicas/wms-fulfillment/internal/infrastructure/layout"
)

func main() {
	path := "layout.yaml"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}
	encoding := ""
	if len(os.Args) > 2 {
		encoding = os.Args[2]
	}

	f, err := os.Open(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir layout: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	l, err := layout.Parse(f, encoding)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer layout: %v\n", err)
		os.Exit(1)
	}

	var out io.Writer = os.Stdout
	if len(os.Args) > 3 {
		w, err := os.Create(os.Args[3])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Crear salida: %v\n", err)
			os.Exit(1)
		}
		defer w.Close()
		out = w
	}

	if err := l.WriteSQL(out); err != nil {
		fmt.Fprintf(os.Stderr, "Escribir SQL: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "Layout: %s\n", l.Summary())
}
