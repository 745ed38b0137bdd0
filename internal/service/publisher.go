package service

//go:generate mockgen -source=publisher.go -destination=mocks/mock_publisher.go -package=mocks

// Publisher fans an event out to every audience connected to a room.
type Publisher interface {
	PublishToRoom(roomID uint, event string, payload any)
}

type noopPublisher struct{}

func (noopPublisher) PublishToRoom(uint, string, any) {}

func publisherOrNoop(p Publisher) Publisher {
	if p == nil {
		return noopPublisher{}
	}
	return p
}
