package controller

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	database "github.com/abanoubmamdouhhanna/cfc/config"
	"github.com/abanoubmamdouhhanna/cfc/models"
	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var mealCollection *mongo.Collection = database.OpenCollection(database.Client, "meal")

// findActiveMeal looks up a meal by id, excluding soft-deleted records.
// The soft-delete filter is explicit at every call site rather than hidden
// in a query hook.
func findActiveMeal(ctx context.Context, mealId string) (models.Meal, error) {
	var meal models.Meal
	err := mealCollection.FindOne(ctx, bson.M{"meal_id": mealId, "is_deleted": false}).Decode(&meal)
	return meal, err
}

// Get all meals with pagination
func GetMeals(w http.ResponseWriter, r *http.Request) {
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

	totalMeals, err := mealCollection.CountDocuments(ctx, bson.M{"is_deleted": false})
	if err != nil {
		http.Error(w, `{"success": false, "message": "Error retrieving total meal count"}`, http.StatusInternalServerError)
		return
	}

	matchStage := bson.D{{Key: "$match", Value: bson.D{{Key: "is_deleted", Value: false}}}}
	skipStage := bson.D{{Key: "$skip", Value: startIndex}}
	limitStage := bson.D{{Key: "$limit", Value: int64(recordPerPage)}}
	projectStage := bson.D{
		{Key: "$project", Value: bson.D{
			{Key: "_id", Value: 0},
			{Key: "meal_id", Value: 1},
			{Key: "title", Value: 1},
			{Key: "description", Value: 1},
			{Key: "image", Value: 1},
			{Key: "final_price", Value: 1},
			{Key: "final_combo_price", Value: 1},
			{Key: "is_combo", Value: 1},
			{Key: "status", Value: 1},
		}},
	}

	result, err := mealCollection.Aggregate(ctx, mongo.Pipeline{matchStage, skipStage, limitStage, projectStage})
	if err != nil {
		http.Error(w, `{"success": false, "message": "Error retrieving meals"}`, http.StatusInternalServerError)
		return
	}

	var allMeals []bson.M
	if err = result.All(ctx, &allMeals); err != nil {
		http.Error(w, `{"success": false, "message": "Error decoding meal data"}`, http.StatusInternalServerError)
		return
	}

	response := map[string]interface{}{
		"success": true,
		"message": "Meals retrieved successfully",
		"data":    allMeals,
		"pagination": map[string]interface{}{
			"current_page":     page,
			"records_per_page": recordPerPage,
			"total_meals":      totalMeals,
			"total_pages":      (totalMeals + int64(recordPerPage) - 1) / int64(recordPerPage),
		},
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

func GetMealById(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
	defer cancel()

	mealId := mux.Vars(r)["meal_id"]

	meal, err := findActiveMeal(ctx, mealId)
	if errors.Is(err, mongo.ErrNoDocuments) {
		http.Error(w, `{"success": false, "message": "Meal not found"}`, http.StatusNotFound)
		return
	} else if err != nil {
		http.Error(w, `{"success": false, "message": "Error retrieving meal"}`, http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Meal retrieved successfully",
		"data":    meal,
	})
}

func CreateMeal(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
	defer cancel()

	var meal models.Meal
	if err := json.NewDecoder(r.Body).Decode(&meal); err != nil {
		http.Error(w, `{"success": false, "message": "Invalid request body"}`, http.StatusBadRequest)
		return
	}

	if validationErr := validate.Struct(meal); validationErr != nil {
		http.Error(w, validationErr.Error(), http.StatusBadRequest)
		return
	}

	if meal.Status == "" {
		meal.Status = models.MealAvailable
	}
	meal.Created_at = time.Now()
	meal.Updated_at = time.Now()
	meal.ID = primitive.NewObjectID()
	meal.Meal_id = meal.ID.Hex()

	if _, err := mealCollection.InsertOne(ctx, meal); err != nil {
		http.Error(w, `{"success": false, "message": "Meal creation failed"}`, http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"message": "Meal created successfully",
		"data":    meal,
	})
}

// UpdateMealStatus toggles availability
func UpdateMealStatus(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
	defer cancel()

	mealId := mux.Vars(r)["meal_id"]

	var requestBody struct {
		Status string `json:"status" validate:"required,oneof='available' 'not available'"`
	}
	if err := json.NewDecoder(r.Body).Decode(&requestBody); err != nil {
		http.Error(w, `{"success": false, "message": "Invalid request body"}`, http.StatusBadRequest)
		return
	}
	if requestBody.Status != models.MealAvailable && requestBody.Status != models.MealNotAvailable {
		http.Error(w, `{"success": false, "message": "Invalid meal status"}`, http.StatusBadRequest)
		return
	}

	result, err := mealCollection.UpdateOne(ctx,
		bson.M{"meal_id": mealId, "is_deleted": false},
		bson.M{"$set": bson.M{"status": requestBody.Status, "updated_at": time.Now()}})
	if err != nil {
		http.Error(w, `{"success": false, "message": "Failed to update meal status"}`, http.StatusInternalServerError)
		return
	}
	if result.MatchedCount == 0 {
		http.Error(w, `{"success": false, "message": "Meal not found"}`, http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Meal status updated successfully",
	})
}

// DeleteMeal soft-deletes a meal; existing order snapshots keep their data.
func DeleteMeal(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
	defer cancel()

	mealId := mux.Vars(r)["meal_id"]

	result, err := mealCollection.UpdateOne(ctx,
		bson.M{"meal_id": mealId, "is_deleted": false},
		bson.M{"$set": bson.M{"is_deleted": true, "updated_at": time.Now()}})
	if err != nil {
		http.Error(w, `{"success": false, "message": "Error deleting meal"}`, http.StatusInternalServerError)
		return
	}
	if result.MatchedCount == 0 {
		http.Error(w, `{"success": false, "message": "Meal not found"}`, http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Meal deleted successfully",
	})
}
