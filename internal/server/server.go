package server

// Данный сервер объединяет специфичные HTTP сервера. Пока сущность одна —
// рынок, но структура оставлена расширяемой.
type Server struct {
	MarketServer
}

func NewServer(
	marketServer MarketServer,
) Server {
	return Server{
		MarketServer: marketServer,
	}
}
