package entities

// MessagePath - путь, по которому часы отправляют собранные значения
const MessagePath = "/msg"

// Message - сообщение между узлами (часы -> телефон)
type Message struct {
	Path    string `json:"path"`
	Node    string `json:"node"`
	Payload []byte `json:"payload"`
}
