package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"dutytrack-backend/internal/store"
	"dutytrack-backend/pkg/utils"
)

type RegisterDeviceRequest struct {
	Username string `json:"username"`
	Token    string `json:"token"`
	Platform string `json:"platform"` // "ios" or "android"
}

// RegisterDevice stores an FCM device token. Registered devices receive a
// push when any duty starts or stops. Re-registering a token moves it to
// the new username.
// POST /devices
func RegisterDevice(devices store.DeviceStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RegisterDeviceRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		if req.Username == "" || req.Token == "" {
			utils.RespondError(w, http.StatusBadRequest, "username and token are required")
			return
		}
		if req.Platform != "ios" && req.Platform != "android" {
			utils.RespondError(w, http.StatusBadRequest, "platform must be 'ios' or 'android'")
			return
		}

		if err := devices.Register(r.Context(), req.Username, req.Token, req.Platform); err != nil {
			log.Printf("❌ Error registering device token: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Error registering device")
			return
		}

		log.Printf("✅ Device registered for %s (%s)", req.Username, req.Platform)
		utils.RespondJSON(w, http.StatusOK, map[string]string{
			"message": "Device registered successfully!",
		})
	}
}
