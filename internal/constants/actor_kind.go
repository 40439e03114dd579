package constants

import "fmt"

type ActorKind uint8

const (
	ActorRequester ActorKind = iota + 1
	ActorProvider
)

// ParseActorKind accepts "requester" and its legacy alias "user".
func ParseActorKind(raw string) (ActorKind, error) {
	switch raw {
	case "requester", "user":
		return ActorRequester, nil
	case "provider":
		return ActorProvider, nil
	default:
		return 0, fmt.Errorf("unknown actor kind %q", raw)
	}
}

func (k ActorKind) String() string {
	switch k {
	case ActorRequester:
		return "requester"
	case ActorProvider:
		return "provider"
	default:
		return fmt.Sprintf("ActorKind(%d)", uint8(k))
	}
}
