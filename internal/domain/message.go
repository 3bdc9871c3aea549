package domain

import "time"

// Roles admitidos en el historial.
const (
	RoleUser  = "user"
	RoleModel = "model"
)

// Message es el único registro persistido: un turno de la conversación de un usuario.
// Los mensajes son inmutables una vez escritos.
type Message struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// Turn es un turno previo tal como se entrega al generador.
type Turn struct {
	Role string
	Text string
}

// TurnRole mapea el rol almacenado al rol del proveedor: "user" se mantiene, todo lo demás es "model".
func TurnRole(role string) string {
	if role == RoleUser {
		return RoleUser
	}
	return RoleModel
}

// SortOrder indica el orden en que se devuelven los mensajes de un usuario.
type SortOrder int

const (
	NewestFirst SortOrder = iota
	OldestFirst
)

func (o SortOrder) String() string {
	if o == OldestFirst {
		return "oldest_first"
	}
	return "newest_first"
}
