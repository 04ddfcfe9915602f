package service

import (
	"context"
	"time"

	"basegraph.app/specforge/common/llm"
)

// GatewayStatus is the result of a connection test against the model gateway.
type GatewayStatus struct {
	Enabled   bool          `json:"enabled"`
	Connected bool          `json:"connected"`
	Model     string        `json:"model,omitempty"`
	Reply     string        `json:"reply,omitempty"`
	ErrorKind llm.ErrorKind `json:"errorKind,omitempty"`
	Error     string        `json:"error,omitempty"`
	LatencyMs int64         `json:"latencyMs"`
}

type GatewayService interface {
	Status(ctx context.Context) GatewayStatus
}

type gatewayService struct {
	gateway llm.Gateway
}

func NewGatewayService(gateway llm.Gateway) GatewayService {
	return &gatewayService{gateway: gateway}
}

func (s *gatewayService) Status(ctx context.Context) GatewayStatus {
	if s.gateway == nil {
		return GatewayStatus{Error: llm.ErrMissingAPIKey.Error()}
	}

	status := GatewayStatus{Enabled: true, Model: s.gateway.Model()}
	start := time.Now()
	reply, err := llm.Ping(ctx, s.gateway)
	status.LatencyMs = time.Since(start).Milliseconds()
	if err != nil {
		status.ErrorKind = llm.KindOf(err)
		status.Error = err.Error()
		return status
	}

	status.Connected = true
	status.Reply = reply
	return status
}
