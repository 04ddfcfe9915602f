package service

import (
	"basegraph.app/specforge/common/llm"
	"basegraph.app/specforge/internal/queue"
)

type Services struct {
	generator Generator
	gateway   llm.Gateway
	publisher queue.Publisher
}

// NewServices wires the services. gateway may be nil when no model is configured.
func NewServices(generator Generator, gateway llm.Gateway, publisher queue.Publisher) *Services {
	return &Services{
		generator: generator,
		gateway:   gateway,
		publisher: publisher,
	}
}

func (s *Services) Projects() ProjectService {
	return NewProjectService(s.generator, s.publisher)
}

func (s *Services) Gateway() GatewayService {
	return NewGatewayService(s.gateway)
}
