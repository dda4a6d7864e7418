package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/hiveswitch/companion/server/chatproxy"
	"github.com/hiveswitch/companion/server/store"
	"github.com/hiveswitch/companion/server/store/storemodels"
)

// API is the popup/shim-facing HTTP surface. It is a pull-based reader of the
// same store the monitor writes, plus a thin passthrough for message
// operations so the popup never talks to the proxy directly.
type API struct {
	app    *App
	store  store.Store
	router *mux.Router
	log    logrus.FieldLogger
}

func NewAPI(app *App, st store.Store) *API {
	api := &API{
		app:    app,
		store:  st,
		router: mux.NewRouter(),
		log:    app.log.WithField("component", "api"),
	}

	api.router.Use(api.instrument)

	v1 := api.router.PathPrefix("/api/v1").Subrouter()
	v1.HandleFunc("/badge", api.getBadge).Methods(http.MethodGet)
	v1.HandleFunc("/channels", api.getChannels).Methods(http.MethodGet)
	v1.HandleFunc("/unreads", api.getUnreads).Methods(http.MethodGet)
	v1.HandleFunc("/notifications", api.listNotifications).Methods(http.MethodGet)
	v1.HandleFunc("/notifications/{id}", api.deleteNotification).Methods(http.MethodDelete)
	v1.HandleFunc("/settings", api.getSettings).Methods(http.MethodGet)
	v1.HandleFunc("/settings", api.putSettings).Methods(http.MethodPut)
	v1.HandleFunc("/session/cookie", api.putSessionCookie).Methods(http.MethodPost)
	v1.HandleFunc("/logout", api.logout).Methods(http.MethodPost)
	v1.HandleFunc("/channels/{id}/read", api.markChannelRead).Methods(http.MethodPost)
	v1.HandleFunc("/channels/{id}/posts", api.sendMessage).Methods(http.MethodPost)
	v1.HandleFunc("/posts/{id}", api.updateMessage).Methods(http.MethodPut)
	v1.HandleFunc("/posts/{id}", api.deleteMessage).Methods(http.MethodDelete)
	v1.HandleFunc("/posts/{id}/reactions", api.toggleReaction).Methods(http.MethodPost)

	api.router.Handle("/metrics", app.metrics.Handler()).Methods(http.MethodGet)

	return api
}

func (a *API) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.router.ServeHTTP(w, r)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (a *API) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		a.app.metrics.IncrementHTTPRequests()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		next.ServeHTTP(recorder, r)

		if recorder.status >= 400 {
			a.app.metrics.IncrementHTTPErrors()
		}

		handler := r.URL.Path
		if route := mux.CurrentRoute(r); route != nil {
			if template, err := route.GetPathTemplate(); err == nil {
				handler = template
			}
		}
		a.app.metrics.ObserveAPIEndpointDuration(handler, r.Method, strconv.Itoa(recorder.status), time.Since(start).Seconds())
	})
}

func (a *API) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		a.log.WithError(err).Warn("Failed to write response")
	}
}

func (a *API) writeError(w http.ResponseWriter, status int, message string) {
	a.writeJSON(w, status, map[string]string{"error": message})
}

func (a *API) getBadge(w http.ResponseWriter, r *http.Request) {
	badge, err := a.store.GetBadge()
	if err != nil {
		a.writeError(w, http.StatusInternalServerError, "failed to load badge")
		return
	}
	a.writeJSON(w, http.StatusOK, badge)
}

func (a *API) getChannels(w http.ResponseWriter, r *http.Request) {
	channels, err := a.store.GetChannels()
	if err != nil {
		a.writeError(w, http.StatusInternalServerError, "failed to load channels")
		return
	}
	if channels == nil {
		channels = []storemodels.Channel{}
	}
	a.writeJSON(w, http.StatusOK, channels)
}

func (a *API) getUnreads(w http.ResponseWriter, r *http.Request) {
	counts, err := a.store.GetUnreadCounts()
	if err != nil {
		a.writeError(w, http.StatusInternalServerError, "failed to load unread counts")
		return
	}

	var total int64
	for _, c := range counts {
		total += c
	}
	a.writeJSON(w, http.StatusOK, map[string]any{"counts": counts, "total": total})
}

func (a *API) listNotifications(w http.ResponseWriter, r *http.Request) {
	notifications, err := a.store.ListNotifications()
	if err != nil {
		a.writeError(w, http.StatusInternalServerError, "failed to load notifications")
		return
	}
	if notifications == nil {
		notifications = []storemodels.Notification{}
	}
	a.writeJSON(w, http.StatusOK, notifications)
}

// deleteNotification is the shim's "notification clicked" path: navigation is
// its job, dismissal is ours.
func (a *API) deleteNotification(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := a.store.DeleteNotification(id); err != nil {
		a.writeError(w, http.StatusInternalServerError, "failed to delete notification")
		return
	}
	a.writeJSON(w, http.StatusNoContent, nil)
}

func (a *API) getSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := a.store.GetSettings()
	if err != nil {
		a.writeError(w, http.StatusInternalServerError, "failed to load settings")
		return
	}
	a.writeJSON(w, http.StatusOK, settings)
}

func (a *API) putSettings(w http.ResponseWriter, r *http.Request) {
	var settings storemodels.Settings
	if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
		a.writeError(w, http.StatusBadRequest, "invalid settings payload")
		return
	}
	if err := settings.Validate(); err != nil {
		a.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := a.store.SetSettings(settings); err != nil {
		a.writeError(w, http.StatusInternalServerError, "failed to persist settings")
		return
	}

	// Interval or enablement may have changed; the monitor re-arms either way.
	if err := a.app.monitor.Reload(); err != nil {
		a.log.WithError(err).Error("Failed to reload monitor after settings change")
	}
	a.writeJSON(w, http.StatusOK, settings)
}

// putSessionCookie receives the browser's proxy session cookie from the shim.
// The recovery chain tries it first when the bearer session dies.
func (a *API) putSessionCookie(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Cookie string `json:"cookie"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		a.writeError(w, http.StatusBadRequest, "invalid cookie payload")
		return
	}

	if err := a.store.SetSessionCookie(body.Cookie); err != nil {
		a.writeError(w, http.StatusInternalServerError, "failed to persist session cookie")
		return
	}
	a.writeJSON(w, http.StatusNoContent, nil)
}

func (a *API) logout(w http.ResponseWriter, r *http.Request) {
	if err := a.store.ClearSession(); err != nil {
		a.writeError(w, http.StatusInternalServerError, "failed to clear session")
		return
	}
	if err := a.app.monitor.Reload(); err != nil {
		a.log.WithError(err).Error("Failed to reload monitor after logout")
	}
	a.writeJSON(w, http.StatusNoContent, nil)
}

func (a *API) markChannelRead(w http.ResponseWriter, r *http.Request) {
	channelID := mux.Vars(r)["id"]
	if err := a.store.MarkChannelRead(channelID); err != nil {
		a.writeError(w, http.StatusInternalServerError, "failed to mark channel read")
		return
	}

	// Refresh the badge promptly instead of waiting out the poll interval.
	a.app.TriggerPoll()
	a.writeJSON(w, http.StatusNoContent, nil)
}

func (a *API) proxyCredential() (chatproxy.Credential, error) {
	settings, err := a.store.GetSettings()
	if err != nil {
		return chatproxy.Credential{}, err
	}

	if settings.UsesCookieSession() {
		cookie, cookieErr := a.store.GetSessionCookie()
		if cookieErr != nil {
			return chatproxy.Credential{}, cookieErr
		}
		return chatproxy.CookieCredential(cookie), nil
	}
	return chatproxy.BearerCredential(settings.ChatToken), nil
}

func (a *API) sendMessage(w http.ResponseWriter, r *http.Request) {
	channelID := mux.Vars(r)["id"]
	var body struct {
		Message string `json:"message"`
		RootID  string `json:"root_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		a.writeError(w, http.StatusBadRequest, "invalid message payload")
		return
	}

	cred, err := a.proxyCredential()
	if err != nil {
		a.writeError(w, http.StatusInternalServerError, "failed to resolve session")
		return
	}

	post, err := a.app.client.SendMessage(r.Context(), cred, channelID, body.RootID, body.Message)
	if err != nil {
		a.writeProxyError(w, err)
		return
	}
	a.writeJSON(w, http.StatusCreated, post)
}

func (a *API) updateMessage(w http.ResponseWriter, r *http.Request) {
	postID := mux.Vars(r)["id"]
	var body struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		a.writeError(w, http.StatusBadRequest, "invalid message payload")
		return
	}

	cred, err := a.proxyCredential()
	if err != nil {
		a.writeError(w, http.StatusInternalServerError, "failed to resolve session")
		return
	}

	post, err := a.app.client.UpdateMessage(r.Context(), cred, postID, body.Message)
	if err != nil {
		a.writeProxyError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, post)
}

func (a *API) deleteMessage(w http.ResponseWriter, r *http.Request) {
	postID := mux.Vars(r)["id"]

	cred, err := a.proxyCredential()
	if err != nil {
		a.writeError(w, http.StatusInternalServerError, "failed to resolve session")
		return
	}

	if err = a.app.client.DeleteMessage(r.Context(), cred, postID); err != nil {
		a.writeProxyError(w, err)
		return
	}
	a.writeJSON(w, http.StatusNoContent, nil)
}

func (a *API) toggleReaction(w http.ResponseWriter, r *http.Request) {
	postID := mux.Vars(r)["id"]
	var body struct {
		EmojiName string `json:"emoji_name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		a.writeError(w, http.StatusBadRequest, "invalid reaction payload")
		return
	}

	cred, err := a.proxyCredential()
	if err != nil {
		a.writeError(w, http.StatusInternalServerError, "failed to resolve session")
		return
	}

	if err = a.app.client.ToggleReaction(r.Context(), cred, postID, body.EmojiName); err != nil {
		a.writeProxyError(w, err)
		return
	}
	a.writeJSON(w, http.StatusNoContent, nil)
}

func (a *API) writeProxyError(w http.ResponseWriter, err error) {
	if errors.Is(err, chatproxy.ErrUnauthorized) {
		a.writeError(w, http.StatusUnauthorized, "chat session rejected")
		return
	}
	a.log.WithError(err).Warn("Proxy passthrough call failed")
	a.writeError(w, http.StatusBadGateway, "chat proxy call failed")
}
