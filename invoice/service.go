package invoice

import (
	"context"
	"fmt"
	"log"
	"time"

	database "github.com/abanoubmamdouhhanna/cfc/config"
	"github.com/abanoubmamdouhhanna/cfc/models"
	"github.com/abanoubmamdouhhanna/cfc/notify"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	orderCollection    *mongo.Collection = database.OpenCollection(database.Client, "order")
	locationCollection *mongo.Collection = database.OpenCollection(database.Client, "location")
)

// Service runs the invoice pipeline: render, upload, record the URL on the
// order, enqueue the customer email.
type Service struct {
	Renderer Renderer
	Storage  Storage
}

func NewService() *Service {
	return &Service{Renderer: HTMLRenderer{}, Storage: DiskStorageFromEnv()}
}

// Process generates and stores the invoice for a paid order. Failures are
// reported but callers treat invoicing as best-effort: payment confirmation
// must not be rolled back because a document could not be rendered.
func (s *Service) Process(ctx context.Context, order models.Order, user models.User) error {
	var location models.Location
	if err := locationCollection.FindOne(ctx, bson.M{"location_id": order.Location_id}).Decode(&location); err != nil {
		return fmt.Errorf("invoice: location lookup: %w", err)
	}

	name := ""
	if user.First_name != nil && user.Last_name != nil {
		name = *user.First_name + " " + *user.Last_name
	}

	doc, err := s.Renderer.Render(order, name, location)
	if err != nil {
		return fmt.Errorf("invoice: render: %w", err)
	}

	url, handle, err := s.Storage.Upload(FileName(order), doc)
	if err != nil {
		return fmt.Errorf("invoice: upload: %w", err)
	}

	_, err = orderCollection.UpdateOne(ctx,
		bson.M{"order_id": order.Order_id},
		bson.M{"$set": bson.M{"invoice_url": url, "invoice_handle": handle, "updated_at": time.Now()}})
	if err != nil {
		return fmt.Errorf("invoice: record url: %w", err)
	}

	if user.Email != nil {
		if err := notify.Enqueue(ctx, "order_invoice", *user.Email, "Order Invoice",
			fmt.Sprintf("Thanks for your order %s! Your invoice is attached.", order.Order_id), url); err != nil {
			log.Printf("Failed to enqueue invoice email for order %s: %v", order.Order_id, err)
		}
	}
	return nil
}

// Remove deletes a cancelled order's invoice asset and clears the
// references from the order document.
func (s *Service) Remove(ctx context.Context, order models.Order) error {
	if order.Invoice_handle != "" {
		if err := s.Storage.Delete(order.Invoice_handle); err != nil {
			log.Printf("Error deleting invoice for order %s: %v", order.Order_id, err)
		}
	}
	_, err := orderCollection.UpdateOne(ctx,
		bson.M{"order_id": order.Order_id},
		bson.M{"$unset": bson.M{"invoice_url": "", "invoice_handle": ""}})
	return err
}
