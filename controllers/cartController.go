package controller

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/abanoubmamdouhhanna/cfc/apperr"
	database "github.com/abanoubmamdouhhanna/cfc/config"
	"github.com/abanoubmamdouhhanna/cfc/helper"
	"github.com/abanoubmamdouhhanna/cfc/models"
	"github.com/abanoubmamdouhhanna/cfc/pricing"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var cartCollection *mongo.Collection = database.OpenCollection(database.Client, "cart")

// Cart writes are read-modify-write (quantity increments on existing
// entries), so they serialize per user.
var cartLocks helper.KeyedMutex

// toCatalogMeal converts a stored meal into the pricing engine's snapshot.
func toCatalogMeal(meal models.Meal) pricing.CatalogMeal {
	snapshot := pricing.CatalogMeal{
		ID:        meal.Meal_id,
		Available: meal.Status == models.MealAvailable,
		Deleted:   meal.Is_deleted,
	}
	if meal.Title != nil {
		snapshot.Title = *meal.Title
	}
	if meal.Final_price != nil {
		snapshot.FinalPrice = *meal.Final_price
	}
	if meal.Final_combo_price != nil {
		snapshot.FinalComboPrice = *meal.Final_combo_price
	}
	return snapshot
}

// resolveOptions fetches addon options by id, preserving list positions.
// Missing options come back as nil so the pricing engine can drop them
// without disturbing the free-allowance indexing.
func resolveOptions(ctx context.Context, optionType string, ids []string) []*pricing.CatalogOption {
	out := make([]*pricing.CatalogOption, len(ids))
	for i, id := range ids {
		option, err := findOption(ctx, optionType, id)
		if err != nil {
			continue
		}
		name := ""
		if option.Name != nil {
			name = *option.Name
		}
		out[i] = &pricing.CatalogOption{
			ID:        option.Option_id,
			Name:      name,
			Price:     option.Price,
			Available: option.Is_available,
		}
	}
	return out
}

func findCart(ctx context.Context, userId string) (models.Cart, error) {
	var cart models.Cart
	err := cartCollection.FindOne(ctx, bson.M{"created_by": userId, "is_deleted": false}).Decode(&cart)
	return cart, err
}

type cartMealView struct {
	models.CartMeal
	Title        string  `json:"title"`
	ItemSubtotal float64 `json:"item_subtotal"`
}

type cartExtraView struct {
	models.CartExtra
	Name         string  `json:"name"`
	ItemSubtotal float64 `json:"item_subtotal"`
}

// GetCart prices every entry in the user's cart on demand and returns a
// view with per-item and cart subtotals. An empty cart is a valid,
// zero-subtotal response.
func GetCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
	defer cancel()

	_, _, _, uid := middlewareUser(r)

	cart, err := findCart(ctx, uid)
	if errors.Is(err, mongo.ErrNoDocuments) || (err == nil && len(cart.Meals) == 0 && len(cart.Extras) == 0) {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"message": "User cart is empty",
			"data": map[string]interface{}{
				"created_by":    uid,
				"meals":         []cartMealView{},
				"extras":        []cartExtraView{},
				"cart_subtotal": 0,
			},
		})
		return
	} else if err != nil {
		http.Error(w, `{"success": false, "message": "Error retrieving cart"}`, http.StatusInternalServerError)
		return
	}

	subtotal := decimal.Zero
	mealViews := make([]cartMealView, 0, len(cart.Meals))
	for _, entry := range cart.Meals {
		meal, err := findActiveMeal(ctx, entry.Meal_id)
		if err != nil {
			// Removed from the catalog since it was added; skip in the view.
			continue
		}
		item, err := pricing.PriceMealSelection(
			toCatalogMeal(meal), entry.Quantity, entry.Is_combo,
			resolveOptions(ctx, models.OptionSauce, entry.Sauces),
			resolveOptions(ctx, models.OptionDrink, entry.Drinks),
			resolveOptions(ctx, models.OptionSide, entry.Sides))
		if err != nil {
			continue
		}
		mealViews = append(mealViews, cartMealView{CartMeal: entry, Title: item.Title, ItemSubtotal: item.Item_total})
		subtotal = subtotal.Add(decimal.NewFromFloat(item.Item_total))
	}

	extraViews := make([]cartExtraView, 0, len(cart.Extras))
	for _, extra := range cart.Extras {
		option, err := findOption(ctx, extra.Type, extra.Option_id)
		if err != nil {
			extraViews = append(extraViews, cartExtraView{CartExtra: extra, Name: "Unavailable", ItemSubtotal: 0})
			continue
		}
		name := ""
		if option.Name != nil {
			name = *option.Name
		}
		itemSubtotal := pricing.ExtraSubtotal(option.Price, extra.Quantity)
		extraViews = append(extraViews, cartExtraView{CartExtra: extra, Name: name, ItemSubtotal: itemSubtotal})
		subtotal = subtotal.Add(decimal.NewFromFloat(itemSubtotal))
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "User Cart",
		"data": map[string]interface{}{
			"created_by":    uid,
			"meals":         mealViews,
			"extras":        extraViews,
			"cart_subtotal": subtotal.Round(2).InexactFloat64(),
		},
	})
}

// AddToCart validates the meal and merges the selection into the user's
// cart. Adding an unavailable meal records the user's interest instead.
func AddToCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
	defer cancel()

	_, _, _, uid := middlewareUser(r)

	var entry models.CartMeal
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
		http.Error(w, `{"success": false, "message": "Invalid request body"}`, http.StatusBadRequest)
		return
	}
	if entry.Quantity < 1 {
		entry.Quantity = 1
	}
	if validationErr := validate.Struct(entry); validationErr != nil {
		http.Error(w, validationErr.Error(), http.StatusBadRequest)
		return
	}
	if !entry.Is_combo {
		entry.Sauces, entry.Drinks, entry.Sides = nil, nil, nil
	}

	var meal models.Meal
	err := mealCollection.FindOne(ctx, bson.M{"meal_id": entry.Meal_id}).Decode(&meal)
	if err != nil {
		writeError(w, apperr.New(apperr.NotFound, "Invalid meal Id"))
		return
	}
	if meal.Status == models.MealNotAvailable || meal.Is_deleted {
		// Wish-list side effect: remember who wanted it.
		_, _ = mealCollection.UpdateOne(ctx, bson.M{"meal_id": entry.Meal_id},
			bson.M{"$addToSet": bson.M{"wish_users": uid}})
		writeError(w, apperr.New(apperr.Validation, "You can't buy this meal at least right now"))
		return
	}

	unlock := cartLocks.Lock(uid)
	defer unlock()

	cart, err := findCart(ctx, uid)
	if errors.Is(err, mongo.ErrNoDocuments) {
		cart = models.Cart{
			ID:         primitive.NewObjectID(),
			Created_by: uid,
			Meals:      []models.CartMeal{entry},
			Extras:     []models.CartExtra{},
			Created_at: time.Now(),
			Updated_at: time.Now(),
		}
		if _, err := cartCollection.InsertOne(ctx, cart); err != nil {
			http.Error(w, `{"success": false, "message": "Failed to create cart"}`, http.StatusInternalServerError)
			return
		}
	} else if err != nil {
		http.Error(w, `{"success": false, "message": "Error retrieving cart"}`, http.StatusInternalServerError)
		return
	} else {
		cart.MergeMeal(entry)
		if err := saveCart(ctx, cart); err != nil {
			http.Error(w, `{"success": false, "message": "Failed to update cart"}`, http.StatusInternalServerError)
			return
		}
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"message": "Meal added to cart successfully",
		"data":    cart,
	})
}

// AddStandaloneExtra adds an addon purchase not attached to any meal.
func AddStandaloneExtra(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
	defer cancel()

	_, _, _, uid := middlewareUser(r)

	var extra models.CartExtra
	if err := json.NewDecoder(r.Body).Decode(&extra); err != nil {
		http.Error(w, `{"success": false, "message": "Invalid request body"}`, http.StatusBadRequest)
		return
	}
	if extra.Quantity < 1 {
		extra.Quantity = 1
	}
	if !models.ValidOptionType(extra.Type) {
		writeError(w, apperr.New(apperr.Validation, "Invalid type, must be sauce, drink, or side"))
		return
	}

	option, err := findOption(ctx, extra.Type, extra.Option_id)
	if err != nil || !option.Is_available {
		writeError(w, apperr.Newf(apperr.Validation, "This %s is not available", extra.Type))
		return
	}

	unlock := cartLocks.Lock(uid)
	defer unlock()

	cart, err := findCart(ctx, uid)
	if errors.Is(err, mongo.ErrNoDocuments) {
		cart = models.Cart{
			ID:         primitive.NewObjectID(),
			Created_by: uid,
			Meals:      []models.CartMeal{},
			Extras:     []models.CartExtra{extra},
			Created_at: time.Now(),
			Updated_at: time.Now(),
		}
		if _, err := cartCollection.InsertOne(ctx, cart); err != nil {
			http.Error(w, `{"success": false, "message": "Failed to create cart"}`, http.StatusInternalServerError)
			return
		}
	} else if err != nil {
		http.Error(w, `{"success": false, "message": "Error retrieving cart"}`, http.StatusInternalServerError)
		return
	} else {
		cart.MergeExtra(extra)
		if err := saveCart(ctx, cart); err != nil {
			http.Error(w, `{"success": false, "message": "Failed to update cart"}`, http.StatusInternalServerError)
			return
		}
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"message": extra.Type + " added to cart successfully",
		"data":    cart,
	})
}

func saveCart(ctx context.Context, cart models.Cart) error {
	_, err := cartCollection.UpdateOne(ctx,
		bson.M{"created_by": cart.Created_by, "is_deleted": false},
		bson.M{"$set": bson.M{"meals": cart.Meals, "extras": cart.Extras, "updated_at": time.Now()}})
	return err
}

// clearAllCartItems empties a user's cart. Shared with order placement.
func clearAllCartItems(ctx context.Context, userId string) error {
	_, err := cartCollection.UpdateOne(ctx,
		bson.M{"created_by": userId, "is_deleted": false},
		bson.M{"$set": bson.M{"meals": []models.CartMeal{}, "extras": []models.CartExtra{}, "updated_at": time.Now()}})
	return err
}

// clearSelectedItems removes specific meals from a user's cart.
func clearSelectedItems(ctx context.Context, userId string, mealIds []string) error {
	_, err := cartCollection.UpdateOne(ctx,
		bson.M{"created_by": userId, "is_deleted": false},
		bson.M{
			"$pull": bson.M{"meals": bson.M{"meal_id": bson.M{"$in": mealIds}}},
			"$set":  bson.M{"updated_at": time.Now()},
		})
	return err
}

func ClearCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
	defer cancel()

	_, _, _, uid := middlewareUser(r)

	unlock := cartLocks.Lock(uid)
	defer unlock()

	if err := clearAllCartItems(ctx, uid); err != nil {
		http.Error(w, `{"success": false, "message": "Failed to clear cart"}`, http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Cart cleared successfully",
	})
}

func ClearCartItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
	defer cancel()

	_, _, _, uid := middlewareUser(r)

	var requestBody struct {
		MealIds []string `json:"meal_ids" validate:"required,min=1"`
	}
	if err := json.NewDecoder(r.Body).Decode(&requestBody); err != nil || len(requestBody.MealIds) == 0 {
		http.Error(w, `{"success": false, "message": "No meal ids provided"}`, http.StatusBadRequest)
		return
	}

	unlock := cartLocks.Lock(uid)
	defer unlock()

	if err := clearSelectedItems(ctx, uid, requestBody.MealIds); err != nil {
		http.Error(w, `{"success": false, "message": "Failed to clear cart items"}`, http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Cart item selected cleared successfully",
	})
}
