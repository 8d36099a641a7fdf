// Package fulfillment contiene las reglas puras del motor de preparación de pedidos:
// orden de consumo de lotes (FIFO/LIFO/FEFO), plan de picking por zona, secuencia de ruta,
// estados de ítems, empaquetado y agrupación de olas y métricas.
//
// No accede a la base de datos; los casos de uso de application/fulfillment le pasan
// las filas ya bloqueadas dentro de la transacción.
package fulfillment
