package state

import "github.com/roamly/roamly/internal/travel"

// Action is a named command dispatched against the store.
type Action struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

const (
	ActionLogin             = "LOGIN"
	ActionLogout            = "LOGOUT"
	ActionSelectDestination = "SELECT_DESTINATION"
	ActionSelectPackage     = "SELECT_PACKAGE"
	ActionAddToCart         = "ADD_TO_CART"
	ActionClearCart         = "CLEAR_CART"
	ActionSetLoading        = "SET_LOADING"
	ActionSetError          = "SET_ERROR"
	ActionClearError        = "CLEAR_ERROR"
)

// Action creators.

func Login(u *travel.User) Action { return Action{Type: ActionLogin, Payload: u} }

func Logout() Action { return Action{Type: ActionLogout, Payload: nil} }

func SelectDestination(d *travel.Destination) Action {
	return Action{Type: ActionSelectDestination, Payload: d}
}

func SelectPackage(p *travel.Package) Action {
	return Action{Type: ActionSelectPackage, Payload: p}
}

func AddToCart(b travel.Booking) Action { return Action{Type: ActionAddToCart, Payload: b} }

func ClearCart() Action { return Action{Type: ActionClearCart, Payload: nil} }

func SetLoading(isLoading bool) Action { return Action{Type: ActionSetLoading, Payload: isLoading} }

func SetError(msg string) Action { return Action{Type: ActionSetError, Payload: msg} }

func ClearError() Action { return Action{Type: ActionClearError, Payload: nil} }

// Dispatch maps a named action onto the corresponding state mutation. An
// unknown action type or a payload of the wrong kind is logged and otherwise
// ignored; the state is left untouched.
//
//nolint:cyclop // one arm per action type
func (s *Store) Dispatch(a Action) {
	switch a.Type {
	case ActionLogin:
		if u, ok := a.Payload.(*travel.User); ok {
			s.SetUser(u)

			return
		}
	case ActionLogout:
		s.SetUser(nil)
		s.ClearCart()

		return
	case ActionSelectDestination:
		if d, ok := a.Payload.(*travel.Destination); ok {
			s.SelectDestination(d)

			return
		}
	case ActionSelectPackage:
		if p, ok := a.Payload.(*travel.Package); ok {
			s.SelectPackage(p)

			return
		}
	case ActionAddToCart:
		if b, ok := a.Payload.(travel.Booking); ok {
			s.AddToCart(b)

			return
		}
	case ActionClearCart:
		s.ClearCart()

		return
	case ActionSetLoading:
		if v, ok := a.Payload.(bool); ok {
			s.SetLoading(v)

			return
		}
	case ActionSetError:
		if msg, ok := a.Payload.(string); ok {
			s.SetError(msg)

			return
		}
	case ActionClearError:
		s.ClearError()

		return
	default:
		s.l.LogWarn("Unknown action type: %v", a.Type)

		return
	}

	s.l.LogWarn("Dropping action %v: unexpected payload %T", a.Type, a.Payload)
}
