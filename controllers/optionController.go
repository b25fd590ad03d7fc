package controller

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	database "github.com/abanoubmamdouhhanna/cfc/config"
	"github.com/abanoubmamdouhhanna/cfc/models"
	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var optionCollection *mongo.Collection = database.OpenCollection(database.Client, "option")

// findOption resolves one addon option by type and id.
func findOption(ctx context.Context, optionType, optionId string) (models.Option, error) {
	var option models.Option
	err := optionCollection.FindOne(ctx, bson.M{"type": optionType, "option_id": optionId}).Decode(&option)
	return option, err
}

// GetOptions lists addon options of one type (sauce, drink or side).
func GetOptions(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
	defer cancel()

	optionType := mux.Vars(r)["type"]
	if !models.ValidOptionType(optionType) {
		http.Error(w, `{"success": false, "message": "Invalid type, must be sauce, drink, or side"}`, http.StatusBadRequest)
		return
	}

	cursor, err := optionCollection.Find(ctx, bson.M{"type": optionType})
	if err != nil {
		http.Error(w, `{"success": false, "message": "Error retrieving options"}`, http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	var options []models.Option
	if err := cursor.All(ctx, &options); err != nil {
		http.Error(w, `{"success": false, "message": "Error decoding option data"}`, http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Options retrieved successfully",
		"count":   len(options),
		"data":    options,
	})
}

func GetOptionById(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
	defer cancel()

	vars := mux.Vars(r)
	option, err := findOption(ctx, vars["type"], vars["option_id"])
	if errors.Is(err, mongo.ErrNoDocuments) {
		http.Error(w, `{"success": false, "message": "Option not found"}`, http.StatusNotFound)
		return
	} else if err != nil {
		http.Error(w, `{"success": false, "message": "Error retrieving option"}`, http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Option retrieved successfully",
		"data":    option,
	})
}

func CreateOption(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
	defer cancel()

	var option models.Option
	if err := json.NewDecoder(r.Body).Decode(&option); err != nil {
		http.Error(w, `{"success": false, "message": "Invalid request body"}`, http.StatusBadRequest)
		return
	}

	if validationErr := validate.Struct(option); validationErr != nil {
		http.Error(w, validationErr.Error(), http.StatusBadRequest)
		return
	}

	_, _, _, uid := middlewareUser(r)
	option.Created_by = uid
	option.Is_available = true
	option.Created_at = time.Now()
	option.Updated_at = time.Now()
	option.ID = primitive.NewObjectID()
	option.Option_id = option.ID.Hex()

	if _, err := optionCollection.InsertOne(ctx, option); err != nil {
		http.Error(w, `{"success": false, "message": "Option creation failed"}`, http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"message": "Option created successfully",
		"data":    option,
	})
}

// UpdateOptionAvailability flips the availability flag on one option.
func UpdateOptionAvailability(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
	defer cancel()

	vars := mux.Vars(r)

	var requestBody struct {
		IsAvailable *bool `json:"is_available" validate:"required"`
	}
	if err := json.NewDecoder(r.Body).Decode(&requestBody); err != nil || requestBody.IsAvailable == nil {
		http.Error(w, `{"success": false, "message": "Invalid request body"}`, http.StatusBadRequest)
		return
	}

	_, _, _, uid := middlewareUser(r)
	result, err := optionCollection.UpdateOne(ctx,
		bson.M{"type": vars["type"], "option_id": vars["option_id"]},
		bson.M{"$set": bson.M{"is_available": *requestBody.IsAvailable, "updated_by": uid, "updated_at": time.Now()}})
	if err != nil {
		http.Error(w, `{"success": false, "message": "Failed to update option"}`, http.StatusInternalServerError)
		return
	}
	if result.MatchedCount == 0 {
		http.Error(w, `{"success": false, "message": "Option not found"}`, http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Option updated successfully",
	})
}
