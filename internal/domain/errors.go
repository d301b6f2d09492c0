package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrDuplicate    = errors.New("recurso duplicado")
	ErrUnauthorized = errors.New("no autorizado")
)

// Taxonomía de la conciliación de órdenes POS. Cada error queda acotado a la unidad
// de trabajo más pequeña: un ingrediente, una línea de la orden o un evento completo.
var (
	// Evento malformado o irrelevante: se descarta sin tocar deduplicador ni inventario.
	ErrInvalidPayload = errors.New("payload de evento inválido")
	// Ningún negocio coincide con el merchant del evento (o no tiene token POS).
	ErrUnknownBusiness = errors.New("negocio desconocido para el merchant")
	// La orden ya fue conciliada: no-op exitoso.
	ErrAlreadyProcessed = errors.New("orden ya procesada")
	// Falló la consulta del detalle de la orden al POS; el evento se abandona.
	ErrUpstreamFetchFailed = errors.New("falló la consulta de la orden al POS")
	// La línea de la orden no corresponde a ninguna receta; se omite la línea.
	ErrUnresolvedRecipe = errors.New("receta no encontrada para la línea")
	// La receta referencia un ingrediente inexistente; se omite ese ingrediente.
	ErrUnresolvedIngredient = errors.New("ingrediente no encontrado")
	// No hay conversión conocida entre las unidades; se omite el descuento y se reporta.
	ErrUnsupportedConversion = errors.New("conversión de unidades no soportada")
	// Falla posterior a reservar la orden: el reintento no la repite, así que el evento
	// se cierra como fallido conservando el error.
	ErrPartiallyApplied = errors.New("orden reservada pero aplicada parcialmente")
)
