package service

import "cotizador/internal/model"

// QuoteAction is something a seller can do with a saved quote.
type QuoteAction string

const (
	ActionEdit          QuoteAction = "edit"
	ActionMarkQuoted    QuoteAction = "mark_quoted"
	ActionCancel        QuoteAction = "cancel"
	ActionGenerateOrder QuoteAction = "generate_order"
)

// Status messages shown to the seller.
const (
	msgQuoteNotFound      = "No se encontró la cotización."
	msgOrderNeedsQuoted   = "Solo se puede generar pedido para cotizaciones cotizadas."
	msgOrderGenerated     = "Pedido generado correctamente."
	msgAlreadyQuoted      = "La cotización ya está cotizada."
	msgQuoteCancelledNoOp = "No se puede cotizar una cotización cancelada."
	msgAlreadyCancelled   = "La cotización ya está cancelada."
	msgMarkedQuoted       = "Cotización marcada como cotizada."
	msgCancelled          = "Cotización cancelada."
)

var transitions = map[model.QuoteStatus][]model.QuoteStatus{
	model.StatusDraft:     {model.StatusQuoted, model.StatusCancelled},
	model.StatusPending:   {model.StatusQuoted, model.StatusCancelled},
	model.StatusQuoted:    {model.StatusCancelled},
	model.StatusCancelled: nil,
}

// CanTransition reports whether a quote in from may move to to.
func CanTransition(from, to model.QuoteStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// AllowedActions lists what the UI may offer for a quote in status.
func AllowedActions(status model.QuoteStatus) []QuoteAction {
	actions := []QuoteAction{ActionEdit}
	if CanTransition(status, model.StatusQuoted) {
		actions = append(actions, ActionMarkQuoted)
	}
	if CanTransition(status, model.StatusCancelled) {
		actions = append(actions, ActionCancel)
	}
	if status == model.StatusQuoted {
		actions = append(actions, ActionGenerateOrder)
	}
	return actions
}

// Check returns an *IllegalActionError when status does not allow action.
func Check(status model.QuoteStatus, action QuoteAction) error {
	switch action {
	case ActionEdit:
		return nil
	case ActionGenerateOrder:
		if status != model.StatusQuoted {
			return &IllegalActionError{Message: msgOrderNeedsQuoted}
		}
	case ActionMarkQuoted:
		if CanTransition(status, model.StatusQuoted) {
			return nil
		}
		if status == model.StatusQuoted {
			return &IllegalActionError{Message: msgAlreadyQuoted}
		}
		return &IllegalActionError{Message: msgQuoteCancelledNoOp}
	case ActionCancel:
		if !CanTransition(status, model.StatusCancelled) {
			return &IllegalActionError{Message: msgAlreadyCancelled}
		}
	default:
		return &IllegalActionError{Message: "Acción no soportada."}
	}
	return nil
}
