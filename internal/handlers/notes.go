package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/tastella/tastella-backend/internal/database"
	"github.com/tastella/tastella-backend/internal/middleware"
	"github.com/tastella/tastella-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type NoteResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Note    *models.Note `json:"note,omitempty"`
}

// AddNote creates a note for the authenticated user, with an optional image.
func AddNote(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(10 << 20); err != nil { // 10MB
		writeError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	owner, err := primitive.ObjectIDFromHex(middleware.UserID(r))
	if err != nil {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}

	title := r.FormValue("title")
	content := r.FormValue("content")
	if title == "" || content == "" {
		writeError(w, http.StatusBadRequest, "Title and content are required")
		return
	}

	color := r.FormValue("color")
	if color == "" {
		color = models.DefaultNoteColor
	}

	var imageURL string
	if files := r.MultipartForm.File["image"]; len(files) > 0 {
		if cloudinaryService == nil {
			writeError(w, http.StatusInternalServerError, "File upload service not available")
			return
		}
		imageURL, err = cloudinaryService.UploadFileFromHeader(r.Context(), files[0], "tastella_notes")
		if err != nil {
			log.Printf("ERROR: note image upload failed: %v", err)
			writeError(w, http.StatusInternalServerError, "Failed to upload note image")
			return
		}
	}

	now := time.Now()
	note := models.Note{
		ID:        primitive.NewObjectID(),
		CreatedAt: now,
		UpdatedAt: now,
		Title:     title,
		Content:   content,
		Color:     color,
		Image:     imageURL,
		UserOwner: owner,
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if _, err := database.DB.Collection("notes").InsertOne(ctx, note); err != nil {
		log.Printf("ERROR: failed to insert note: %v", err)
		writeError(w, http.StatusInternalServerError, "Error creating note")
		return
	}

	writeJSON(w, http.StatusCreated, NoteResponse{
		Success: true,
		Message: "Note Added! 📝",
		Note:    &note,
	})
}

// GetMyNotes returns the authenticated user's notes, newest first.
func GetMyNotes(w http.ResponseWriter, r *http.Request) {
	owner, err := primitive.ObjectIDFromHex(middleware.UserID(r))
	if err != nil {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	findOptions := options.Find().SetSort(bson.M{"created_at": -1})
	cursor, err := database.DB.Collection("notes").Find(ctx, bson.M{"user_owner": owner}, findOptions)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Error fetching notes")
		return
	}
	defer cursor.Close(ctx)

	notes := []models.Note{}
	if err := cursor.All(ctx, &notes); err != nil {
		writeError(w, http.StatusInternalServerError, "Error fetching notes")
		return
	}

	writeJSON(w, http.StatusOK, notes)
}

// UpdateNote updates an owned note; fields left empty keep their values.
func UpdateNote(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	noteID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "noteID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid note id")
		return
	}
	owner, err := primitive.ObjectIDFromHex(middleware.UserID(r))
	if err != nil {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}

	update := bson.M{"updated_at": time.Now()}
	if title := r.FormValue("title"); title != "" {
		update["title"] = title
	}
	if content := r.FormValue("content"); content != "" {
		update["content"] = content
	}
	if color := r.FormValue("color"); color != "" {
		update["color"] = color
	}
	if files := r.MultipartForm.File["image"]; len(files) > 0 {
		if cloudinaryService == nil {
			writeError(w, http.StatusInternalServerError, "File upload service not available")
			return
		}
		url, err := cloudinaryService.UploadFileFromHeader(r.Context(), files[0], "tastella_notes")
		if err != nil {
			log.Printf("ERROR: note image upload failed: %v", err)
			writeError(w, http.StatusInternalServerError, "Failed to upload note image")
			return
		}
		update["image"] = url
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var note models.Note
	err = database.DB.Collection("notes").FindOneAndUpdate(ctx,
		bson.M{"_id": noteID, "user_owner": owner},
		bson.M{"$set": update},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&note)
	if err == mongo.ErrNoDocuments {
		writeError(w, http.StatusNotFound, "Note not found or unauthorized")
		return
	} else if err != nil {
		writeError(w, http.StatusInternalServerError, "Error updating note")
		return
	}

	writeJSON(w, http.StatusOK, NoteResponse{
		Success: true,
		Message: "Note Updated! ✨",
		Note:    &note,
	})
}

// DeleteNote deletes an owned note.
func DeleteNote(w http.ResponseWriter, r *http.Request) {
	noteID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "noteID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid note id")
		return
	}
	owner, err := primitive.ObjectIDFromHex(middleware.UserID(r))
	if err != nil {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	res, err := database.DB.Collection("notes").DeleteOne(ctx,
		bson.M{"_id": noteID, "user_owner": owner})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Error deleting note")
		return
	}
	if res.DeletedCount == 0 {
		writeError(w, http.StatusNotFound, "Note not found or unauthorized")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Note Deleted 🗑️",
	})
}
