// Пакет logger публикует события изменений каталога в NATS
package logger

// Conn минимальный интерфейс NATS-подключения; ему удовлетворяет *nats.Conn.
// subject — тема сообщения, data — его байтовое содержимое
type Conn interface {
	Publish(subject string, data []byte) error
}

// NATSClient связывает подключение и тему, в которую уходят события каталога
type NATSClient struct {
	conn    Conn
	subject string
}

// NewClient создаёт NATSClient для публикации в subject
func NewClient(conn Conn, subject string) *NATSClient {
	return &NATSClient{conn: conn, subject: subject}
}

// PublishLog отправляет сериализованное событие в настроенную тему
func (n *NATSClient) PublishLog(data []byte) error {
	return n.conn.Publish(n.subject, data)
}
