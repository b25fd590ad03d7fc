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

var locationCollection *mongo.Collection = database.OpenCollection(database.Client, "location")

// findActiveLocation looks up a location by id, excluding soft-deleted
// records.
func findActiveLocation(ctx context.Context, locationId string) (models.Location, error) {
	var location models.Location
	err := locationCollection.FindOne(ctx, bson.M{"location_id": locationId, "is_deleted": false}).Decode(&location)
	return location, err
}

func GetLocations(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
	defer cancel()

	cursor, err := locationCollection.Find(ctx, bson.M{"is_deleted": false})
	if err != nil {
		http.Error(w, `{"success": false, "message": "Error retrieving locations"}`, http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	var locations []models.Location
	if err := cursor.All(ctx, &locations); err != nil {
		http.Error(w, `{"success": false, "message": "Error decoding location data"}`, http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Locations retrieved successfully",
		"count":   len(locations),
		"data":    locations,
	})
}

func GetLocationById(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
	defer cancel()

	locationId := mux.Vars(r)["location_id"]

	location, err := findActiveLocation(ctx, locationId)
	if errors.Is(err, mongo.ErrNoDocuments) {
		http.Error(w, `{"success": false, "message": "Location not found"}`, http.StatusNotFound)
		return
	} else if err != nil {
		http.Error(w, `{"success": false, "message": "Error retrieving location"}`, http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Location retrieved successfully",
		"data":    location,
	})
}

func CreateLocation(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
	defer cancel()

	var location models.Location
	if err := json.NewDecoder(r.Body).Decode(&location); err != nil {
		http.Error(w, `{"success": false, "message": "Invalid request body"}`, http.StatusBadRequest)
		return
	}

	if validationErr := validate.Struct(location); validationErr != nil {
		http.Error(w, validationErr.Error(), http.StatusBadRequest)
		return
	}

	location.Created_at = time.Now()
	location.Updated_at = time.Now()
	location.ID = primitive.NewObjectID()
	location.Location_id = location.ID.Hex()

	if _, err := locationCollection.InsertOne(ctx, location); err != nil {
		http.Error(w, `{"success": false, "message": "Location creation failed"}`, http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"message": "Location created successfully",
		"data":    location,
	})
}
