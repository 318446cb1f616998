package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"dutytrack-backend/internal/auth"
	"dutytrack-backend/internal/middleware"
	"dutytrack-backend/internal/models"
	"dutytrack-backend/internal/services"
	"dutytrack-backend/internal/store"
	"dutytrack-backend/internal/websocket"
	"dutytrack-backend/pkg/utils"

	"github.com/go-chi/chi/v5"
)

type StartDutyRequest struct {
	Username       string `json:"username"`
	StoreName      string `json:"storeName"`
	DutyStart      string `json:"dutyStart"` // "date, time"
	StartLatitude  string `json:"startLatitude"`
	StartLongitude string `json:"startLongitude"`
}

// StartDuty opens a new duty session and returns a long-lived token that
// embeds the duty id; that token is the only handle accepted by StopDuty.
// POST /dutys/start
func StartDuty(duties store.DutyStore, devices store.DeviceStore, tokens *auth.TokenService, hub *websocket.Hub, fcm *services.FCMService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req StartDutyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		log.Printf("📥 Duty start: user=%s store=%s", req.Username, req.StoreName)

		if req.Username == "" || req.StoreName == "" || req.DutyStart == "" ||
			req.StartLatitude == "" || req.StartLongitude == "" {
			utils.RespondError(w, http.StatusBadRequest, "username, storeName, dutyStart, startLatitude and startLongitude are required")
			return
		}

		startDate, startTime, err := models.SplitTimestamp(req.DutyStart)
		if err != nil {
			utils.RespondError(w, http.StatusBadRequest, err.Error())
			return
		}

		duty, err := duties.Start(r.Context(), models.Duty{
			Username:       req.Username,
			StoreName:      req.StoreName,
			StartDate:      startDate,
			StartTime:      startTime,
			StartLatitude:  req.StartLatitude,
			StartLongitude: req.StartLongitude,
		})
		if err != nil {
			log.Printf("❌ Error saving duty: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Error starting duty")
			return
		}

		token, err := tokens.IssueDutyToken(duty.ID, duty.Username)
		if err != nil {
			log.Printf("❌ Failed to create duty token: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Error starting duty")
			return
		}

		hub.Broadcast("duty_started", map[string]string{
			"id":        duty.ID,
			"username":  duty.Username,
			"storeName": duty.StoreName,
		})
		notifyDevices(r, devices, func(deviceTokens []string) {
			fcm.NotifyDutyStarted(deviceTokens, duty.Username, duty.StoreName)
		})

		log.Printf("✅ Duty started: %s", duty.ID)
		utils.RespondJSON(w, http.StatusOK, map[string]string{
			"message": "Duty started successfully!",
			"token":   token,
		})
	}
}

type UpdateLocationRequest struct {
	Username  string `json:"username"`
	Latitude  string `json:"latitude"`
	Longitude string `json:"longitude"`
}

// UpdateLocation appends a GPS sample to the caller's open duty. Matching
// is on the supplied username string alone; no token is required on this
// path (see DESIGN.md on the authorization gap).
// POST /dutys/update-location
func UpdateLocation(duties store.DutyStore, hub *websocket.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req UpdateLocationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		if req.Username == "" || req.Latitude == "" || req.Longitude == "" {
			utils.RespondError(w, http.StatusBadRequest, "username, latitude and longitude are required")
			return
		}

		update, err := duties.AppendLocation(r.Context(), req.Username, req.Latitude, req.Longitude)
		if errors.Is(err, store.ErrNotFound) {
			utils.RespondError(w, http.StatusNotFound, "No active duty found.")
			return
		}
		if err != nil {
			log.Printf("❌ Error updating location: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Error updating location")
			return
		}

		hub.Broadcast("location_update", map[string]interface{}{
			"username":  req.Username,
			"latitude":  update.Latitude,
			"longitude": update.Longitude,
			"timestamp": update.CapturedAt,
		})

		utils.RespondJSON(w, http.StatusOK, map[string]string{
			"message": "Location updated successfully!",
		})
	}
}

type StopDutyRequest struct {
	DutyStop      string `json:"dutyStop"` // "date, time"
	StopLatitude  string `json:"stopLatitude"`
	StopLongitude string `json:"stopLongitude"`
}

// StopDuty closes the duty identified by the bearer token issued at start.
// The token travels in the Authorization header only; body-field transport
// is deliberately not supported.
// POST /dutys/stop
func StopDuty(duties store.DutyStore, devices store.DeviceStore, tokens *auth.TokenService, hub *websocket.Hub, fcm *services.FCMService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tokenString, ok := middleware.BearerToken(r)
		if !ok {
			utils.RespondError(w, http.StatusUnauthorized, "No token provided")
			return
		}

		claims, err := tokens.Verify(tokenString)
		if err != nil {
			utils.RespondError(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}
		if claims.DutyID == "" {
			// Login tokens carry no duty id and cannot stop anything.
			utils.RespondError(w, http.StatusUnauthorized, "Token does not identify a duty")
			return
		}

		var req StopDutyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		stopDate, stopTime, err := models.SplitTimestamp(req.DutyStop)
		if err != nil {
			utils.RespondError(w, http.StatusBadRequest, err.Error())
			return
		}

		err = duties.Stop(r.Context(), claims.DutyID, models.DutyStop{
			StopDate:      stopDate,
			StopTime:      stopTime,
			StopLatitude:  req.StopLatitude,
			StopLongitude: req.StopLongitude,
		})
		if errors.Is(err, store.ErrNotFound) {
			utils.RespondError(w, http.StatusNotFound, "Duty not found")
			return
		}
		if err != nil {
			log.Printf("❌ Error stopping duty: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Error stopping duty")
			return
		}

		hub.Broadcast("duty_stopped", map[string]string{
			"id":       claims.DutyID,
			"username": claims.Username,
		})
		notifyDevices(r, devices, func(deviceTokens []string) {
			fcm.NotifyDutyStopped(deviceTokens, claims.Username)
		})

		log.Printf("✅ Duty stopped: %s", claims.DutyID)
		utils.RespondJSON(w, http.StatusOK, map[string]string{
			"message": "Duty stopped successfully!",
		})
	}
}

// GetDutyHistory returns the closed duties for a username, most recent
// start first (lexicographic on the date/time strings).
// GET /dutys?username=...
func GetDutyHistory(duties store.DutyStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username := r.URL.Query().Get("username")

		history, err := duties.History(r.Context(), username)
		if err != nil {
			log.Printf("❌ Error fetching duty history: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Error fetching duty history")
			return
		}

		utils.RespondJSON(w, http.StatusOK, history)
	}
}

// GetPendingDuties returns the open duties for a username. Normally zero or
// one entries; more when the single-open-duty invariant has been violated.
// GET /pending?username=...
func GetPendingDuties(duties store.DutyStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username := r.URL.Query().Get("username")

		pending, err := duties.Pending(r.Context(), username)
		if err != nil {
			log.Printf("❌ Error fetching pending duties: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Error fetching pending duties")
			return
		}

		utils.RespondJSON(w, http.StatusOK, pending)
	}
}

// GetTravelPath returns the GPS trail of the username's open duty.
// GET /dutys/travel-path/{username}
func GetTravelPath(duties store.DutyStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username := chi.URLParam(r, "username")

		path, err := duties.TravelPath(r.Context(), username)
		if errors.Is(err, store.ErrNotFound) {
			utils.RespondError(w, http.StatusNotFound, "No active duty found.")
			return
		}
		if err != nil {
			log.Printf("❌ Error fetching travel path: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Error fetching travel path")
			return
		}

		utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
			"travelPath": path,
		})
	}
}

// notifyDevices runs the push callback with the registered device tokens.
// Push is best-effort: lookup failures are logged and the request proceeds.
func notifyDevices(r *http.Request, devices store.DeviceStore, send func([]string)) {
	deviceTokens, err := devices.Tokens(r.Context())
	if err != nil {
		log.Printf("⚠️ Could not list device tokens for push: %v", err)
		return
	}
	send(deviceTokens)
}
