package controller

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/abanoubmamdouhhanna/cfc/apperr"
	database "github.com/abanoubmamdouhhanna/cfc/config"
	"github.com/abanoubmamdouhhanna/cfc/models"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var couponCollection *mongo.Collection = database.OpenCollection(database.Client, "coupon")

// validateCoupon looks up a live coupon by name and checks the caller may
// still use it. Names are matched case-insensitively.
func validateCoupon(ctx context.Context, name string, userId string) (*models.Coupon, error) {
	var coupon models.Coupon
	err := couponCollection.FindOne(ctx, bson.M{
		"name":       models.NormalizeCouponName(name),
		"is_deleted": false,
	}).Decode(&coupon)
	if err != nil {
		return nil, apperr.New(apperr.NotFound, "Invalid or expired coupon")
	}
	if err := coupon.UsableBy(userId, time.Now()); err != nil {
		return nil, err
	}
	return &coupon, nil
}

// markCouponUsed records a redemption. $addToSet keeps the entry unique
// even if the order flow retries.
func markCouponUsed(ctx context.Context, couponId string, userId string) error {
	_, err := couponCollection.UpdateOne(ctx,
		bson.M{"coupon_id": couponId},
		bson.M{"$addToSet": bson.M{"used_by": userId}, "$set": bson.M{"updated_at": time.Now()}})
	return err
}

// releaseCoupon frees a redemption after an order is cancelled or
// rejected, making the coupon usable by that user again.
func releaseCoupon(ctx context.Context, couponId string, userId string) {
	_, err := couponCollection.UpdateOne(ctx,
		bson.M{"coupon_id": couponId},
		bson.M{"$pull": bson.M{"used_by": userId}, "$set": bson.M{"updated_at": time.Now()}})
	if err != nil {
		log.Printf("failed to release coupon %s for user %s: %v", couponId, userId, err)
	}
}

func CreateCoupon(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
	defer cancel()

	_, _, _, uid := middlewareUser(r)

	var coupon models.Coupon
	if err := json.NewDecoder(r.Body).Decode(&coupon); err != nil {
		http.Error(w, `{"success": false, "message": "Invalid request body"}`, http.StatusBadRequest)
		return
	}
	if validationErr := validate.Struct(coupon); validationErr != nil {
		http.Error(w, validationErr.Error(), http.StatusBadRequest)
		return
	}
	if coupon.Expire.Before(time.Now()) {
		writeError(w, apperr.New(apperr.Validation, "Expire date must be in the future"))
		return
	}

	coupon.Name = models.NormalizeCouponName(coupon.Name)

	count, err := couponCollection.CountDocuments(ctx, bson.M{"name": coupon.Name, "is_deleted": false})
	if err != nil {
		http.Error(w, `{"success": false, "message": "Error checking coupon name"}`, http.StatusInternalServerError)
		return
	}
	if count > 0 {
		writeError(w, apperr.New(apperr.Conflict, "Coupon with this name already exists"))
		return
	}

	coupon.ID = primitive.NewObjectID()
	coupon.Coupon_id = uuid.NewString()
	coupon.Used_by = []string{}
	coupon.Is_deleted = false
	coupon.Created_by = uid
	coupon.Updated_by = uid
	coupon.Created_at = time.Now()
	coupon.Updated_at = time.Now()

	if _, err := couponCollection.InsertOne(ctx, coupon); err != nil {
		http.Error(w, `{"success": false, "message": "Failed to create coupon"}`, http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"message": "Coupon created successfully",
		"data":    coupon,
	})
}

func GetCoupons(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
	defer cancel()

	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := couponCollection.Find(ctx, bson.M{"is_deleted": false}, findOptions)
	if err != nil {
		http.Error(w, `{"success": false, "message": "Error retrieving coupons"}`, http.StatusInternalServerError)
		return
	}

	var coupons []models.Coupon
	if err := cursor.All(ctx, &coupons); err != nil {
		http.Error(w, `{"success": false, "message": "Error decoding coupons"}`, http.StatusInternalServerError)
		return
	}
	if coupons == nil {
		coupons = []models.Coupon{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "All coupons",
		"data":    coupons,
	})
}

func UpdateCoupon(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
	defer cancel()

	_, _, _, uid := middlewareUser(r)
	couponId := mux.Vars(r)["coupon_id"]

	var requestBody struct {
		Amount *float64   `json:"amount" validate:"omitempty,min=1,max=100"`
		Expire *time.Time `json:"expire"`
	}
	if err := json.NewDecoder(r.Body).Decode(&requestBody); err != nil {
		http.Error(w, `{"success": false, "message": "Invalid request body"}`, http.StatusBadRequest)
		return
	}
	if validationErr := validate.Struct(requestBody); validationErr != nil {
		http.Error(w, validationErr.Error(), http.StatusBadRequest)
		return
	}

	updateObj := bson.M{"updated_by": uid, "updated_at": time.Now()}
	if requestBody.Amount != nil {
		updateObj["amount"] = *requestBody.Amount
	}
	if requestBody.Expire != nil {
		if requestBody.Expire.Before(time.Now()) {
			writeError(w, apperr.New(apperr.Validation, "Expire date must be in the future"))
			return
		}
		updateObj["expire"] = *requestBody.Expire
	}

	result, err := couponCollection.UpdateOne(ctx,
		bson.M{"coupon_id": couponId, "is_deleted": false},
		bson.M{"$set": updateObj})
	if err != nil {
		http.Error(w, `{"success": false, "message": "Failed to update coupon"}`, http.StatusInternalServerError)
		return
	}
	if result.MatchedCount == 0 {
		writeError(w, apperr.New(apperr.NotFound, "Coupon not found"))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Coupon updated successfully",
	})
}

func DeleteCoupon(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
	defer cancel()

	_, _, _, uid := middlewareUser(r)
	couponId := mux.Vars(r)["coupon_id"]

	result, err := couponCollection.UpdateOne(ctx,
		bson.M{"coupon_id": couponId, "is_deleted": false},
		bson.M{"$set": bson.M{"is_deleted": true, "updated_by": uid, "updated_at": time.Now()}})
	if err != nil {
		http.Error(w, `{"success": false, "message": "Failed to delete coupon"}`, http.StatusInternalServerError)
		return
	}
	if result.MatchedCount == 0 {
		writeError(w, apperr.New(apperr.NotFound, "Coupon not found"))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Coupon deleted successfully",
	})
}
