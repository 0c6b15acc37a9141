// Package events publishes domain notifications to RabbitMQ.
package events

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RoutingUserRegistered = "user.registered"
	RoutingPlanCreated    = "plan.created"
)

type UserRegistered struct {
	UserID primitive.ObjectID `json:"userId"`
	Email  string             `json:"email"`
}

type PlanCreated struct {
	PlanID primitive.ObjectID `json:"planId"`
	UserID primitive.ObjectID `json:"userId"`
	Source string             `json:"source"`
}

// Publisher sends an event under a routing key. Implementations must be
// safe for concurrent use.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, event any) error
	Close() error
}

// NopPublisher drops every event. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, any) error { return nil }
func (NopPublisher) Close() error                              { return nil }
