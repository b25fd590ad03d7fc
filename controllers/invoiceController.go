package controller

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/abanoubmamdouhhanna/cfc/apperr"
	middleware "github.com/abanoubmamdouhhanna/cfc/middlewares"
	"github.com/abanoubmamdouhhanna/cfc/models"
	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// GetInvoices lists paid orders that carry an invoice. Admin surface.
func GetInvoices(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
	defer cancel()

	recordPerPage, err := strconv.Atoi(r.URL.Query().Get("recordPerPage"))
	if err != nil || recordPerPage < 1 {
		recordPerPage = 10
	}
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		page = 1
	}
	startIndex := (page - 1) * recordPerPage

	match := bson.D{{Key: "invoice_url", Value: bson.D{{Key: "$exists", Value: true}, {Key: "$ne", Value: ""}}}}
	matchStage := bson.D{{Key: "$match", Value: match}}
	sortStage := bson.D{{Key: "$sort", Value: bson.D{{Key: "created_at", Value: -1}}}}
	skipStage := bson.D{{Key: "$skip", Value: startIndex}}
	limitStage := bson.D{{Key: "$limit", Value: int64(recordPerPage)}}
	projectStage := bson.D{{Key: "$project", Value: bson.D{
		{Key: "_id", Value: 0},
		{Key: "order_id", Value: 1},
		{Key: "user_id", Value: 1},
		{Key: "location_id", Value: 1},
		{Key: "total_price", Value: 1},
		{Key: "invoice_url", Value: 1},
		{Key: "created_at", Value: 1},
	}}}

	cursor, err := orderCollection.Aggregate(ctx, mongo.Pipeline{matchStage, sortStage, skipStage, limitStage, projectStage})
	if err != nil {
		http.Error(w, `{"success": false, "message": "Error retrieving invoices"}`, http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	var invoices []bson.M
	if err := cursor.All(ctx, &invoices); err != nil {
		http.Error(w, `{"success": false, "message": "Error decoding invoices"}`, http.StatusInternalServerError)
		return
	}
	if invoices == nil {
		invoices = []bson.M{}
	}

	totalInvoices, err := orderCollection.CountDocuments(ctx, bson.M{"invoice_url": bson.M{"$exists": true, "$ne": ""}})
	if err != nil {
		http.Error(w, `{"success": false, "message": "Error retrieving invoice count"}`, http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Invoices retrieved successfully",
		"data":    invoices,
		"pagination": map[string]interface{}{
			"current_page":     page,
			"records_per_page": recordPerPage,
			"total_invoices":   totalInvoices,
			"total_pages":      (totalInvoices + int64(recordPerPage) - 1) / int64(recordPerPage),
		},
	})
}

// GetOrderInvoice returns the invoice link for one order. Owners see
// their own; admins see any.
func GetOrderInvoice(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
	defer cancel()

	_, _, _, uid := middlewareUser(r)
	orderId := mux.Vars(r)["order_id"]

	var order models.Order
	err := orderCollection.FindOne(ctx, bson.M{"order_id": orderId}).Decode(&order)
	if errors.Is(err, mongo.ErrNoDocuments) {
		writeError(w, apperr.New(apperr.NotFound, "Order not found"))
		return
	} else if err != nil {
		http.Error(w, `{"success": false, "message": "Error retrieving order"}`, http.StatusInternalServerError)
		return
	}

	role := middleware.GetRoleFromContext(r)
	if order.User_id != uid && !middleware.Authorized(role, models.RoleAdmin, models.RoleSuperAdmin) {
		http.Error(w, `{"success": false, "message": "Access denied"}`, http.StatusForbidden)
		return
	}
	if order.Invoice_url == "" {
		writeError(w, apperr.New(apperr.NotFound, "No invoice generated for this order"))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Invoice retrieved successfully",
		"data": map[string]interface{}{
			"order_id":    order.Order_id,
			"invoice_url": order.Invoice_url,
			"total_price": order.Total_price,
		},
	})
}
