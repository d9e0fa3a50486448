// Package webui serves the non-production debug pages.
package webui

import (
	"embed"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/davecgh/go-spew/spew"

	"github.com/awaikar-syr/departby/internal/app"
	"github.com/awaikar-syr/departby/internal/appconf"
	"github.com/awaikar-syr/departby/internal/topology"
)

//go:embed debug_index.html
var templateFS embed.FS

// WebUI exposes internal state dumps for debugging.
type WebUI struct {
	*app.Application
}

// NewWebUI creates the debug UI over an Application.
func NewWebUI(application *app.Application) *WebUI {
	return &WebUI{Application: application}
}

// SetRoutes registers the debug endpoints on mux.
func (webUI *WebUI) SetRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /debug", webUI.debugIndexHandler)
}

type debugData struct {
	Title string
	Pre   string
}

func writeDebugData(w http.ResponseWriter, title string, data interface{}) {
	content := spew.Sdump(data)
	w.Header().Set("Content-Type", "text/html")
	tmpl, err := template.ParseFS(templateFS, "debug_index.html")
	if err != nil {
		slog.Error("failed to parse debug template", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	if err := tmpl.Execute(w, debugData{Title: title, Pre: content}); err != nil {
		slog.Error("failed to execute debug template", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

func (webUI *WebUI) debugIndexHandler(w http.ResponseWriter, r *http.Request) {
	if webUI.Config.Env == appconf.Production {
		http.NotFound(w, r)
		return
	}
	dataType := r.URL.Query().Get("dataType")

	var data interface{}
	var title string

	switch dataType {
	case "snapshot":
		snapshot, lastErr := webUI.FeedManager.Snapshot()
		data = map[string]interface{}{"snapshot": snapshot, "lastError": lastErr}
		title = "Feed - Latest Snapshot"
	case "settings":
		cfg, err := webUI.Settings.Get(r.Context())
		data = map[string]interface{}{"settings": cfg, "error": err, "revision": webUI.Settings.Revision()}
		title = "Settings"
	case "countdown":
		data = map[string]interface{}{"state": webUI.Countdown.State(), "target": webUI.Countdown.Target()}
		title = "Countdown Engine"
	case "topology_ashmont":
		branch := "Ashmont"
		data = topology.ForBranch(&branch)
		title = "Topology - Ashmont Branch"
	case "topology_braintree":
		branch := "Braintree"
		data = topology.ForBranch(&branch)
		title = "Topology - Braintree Branch"
	default:
		data = map[string]string{
			"error": "Please use one of the following: snapshot, settings, countdown, topology_ashmont, topology_braintree.",
		}
		title = "Choose a data type"
	}

	writeDebugData(w, title, data)
}
