package http

import (
	"net/http"
	"strings"
)

type RouterConfig struct {
	Planning   *PlanningHandler
	Template   *TemplateHandler
	Attendance *AttendanceHandler
	Rcps       *RcpHandler
	Exceptions *ExceptionHandler
	Doctors    *DoctorHandler
	Middleware []func(http.Handler) http.Handler
}

func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()

	if cfg.Planning != nil {
		mux.HandleFunc("/planning", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			cfg.Planning.Window(w, r)
		})
		mux.HandleFunc("/planning/notifications", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			cfg.Planning.Notifications(w, r)
		})
		mux.HandleFunc("/planning/conflicts", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			cfg.Planning.Conflicts(w, r)
		})
	}

	if cfg.Template != nil {
		mux.HandleFunc("/template", func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				cfg.Template.Get(w, r)
			case http.MethodPut:
				cfg.Template.Sync(w, r)
			default:
				methodNotAllowed(w, http.MethodGet, http.MethodPut)
			}
		})
	}

	if cfg.Attendance != nil {
		mux.HandleFunc("/attendance", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			cfg.Attendance.List(w, r)
		})
		mux.HandleFunc("/attendance/pending/", func(w http.ResponseWriter, r *http.Request) {
			doctorID := strings.TrimPrefix(r.URL.Path, "/attendance/pending/")
			if doctorID == "" {
				http.NotFound(w, r)
				return
			}
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			cfg.Attendance.Pending(w, r, doctorID)
		})
		mux.HandleFunc("/attendance/", func(w http.ResponseWriter, r *http.Request) {
			// PUT /attendance/{occurrenceID}/{doctorID}
			rest := strings.TrimPrefix(r.URL.Path, "/attendance/")
			occurrenceID, doctorID, ok := strings.Cut(rest, "/")
			if !ok || occurrenceID == "" || doctorID == "" {
				http.NotFound(w, r)
				return
			}
			if r.Method != http.MethodPut {
				methodNotAllowed(w, http.MethodPut)
				return
			}
			cfg.Attendance.Record(w, r, occurrenceID, doctorID)
		})
	}

	if cfg.Rcps != nil {
		mux.HandleFunc("/rcps", func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				cfg.Rcps.List(w, r)
			case http.MethodPost:
				cfg.Rcps.Create(w, r)
			default:
				methodNotAllowed(w, http.MethodGet, http.MethodPost)
			}
		})
		mux.HandleFunc("/rcps/", func(w http.ResponseWriter, r *http.Request) {
			id := strings.TrimPrefix(r.URL.Path, "/rcps/")
			if id == "" {
				http.NotFound(w, r)
				return
			}
			switch r.Method {
			case http.MethodPut:
				cfg.Rcps.Update(w, r, id)
			case http.MethodDelete:
				cfg.Rcps.Delete(w, r, id)
			default:
				methodNotAllowed(w, http.MethodPut, http.MethodDelete)
			}
		})
	}

	if cfg.Exceptions != nil {
		mux.HandleFunc("/exceptions", func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				cfg.Exceptions.List(w, r)
			case http.MethodPost:
				cfg.Exceptions.Put(w, r)
			default:
				methodNotAllowed(w, http.MethodGet, http.MethodPost)
			}
		})
		mux.HandleFunc("/exceptions/", func(w http.ResponseWriter, r *http.Request) {
			// DELETE /exceptions/{templateID}/{date}
			rest := strings.TrimPrefix(r.URL.Path, "/exceptions/")
			templateID, date, ok := strings.Cut(rest, "/")
			if !ok || templateID == "" || date == "" {
				http.NotFound(w, r)
				return
			}
			if r.Method != http.MethodDelete {
				methodNotAllowed(w, http.MethodDelete)
				return
			}
			cfg.Exceptions.Delete(w, r, templateID, date)
		})
	}

	if cfg.Doctors != nil {
		mux.HandleFunc("/doctors", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			cfg.Doctors.List(w, r)
		})
		mux.HandleFunc("/doctors/", func(w http.ResponseWriter, r *http.Request) {
			id := strings.TrimPrefix(r.URL.Path, "/doctors/")
			if id == "" {
				http.NotFound(w, r)
				return
			}
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			cfg.Doctors.Get(w, r, id)
		})
		mux.HandleFunc("/unavailabilities", func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				cfg.Doctors.ListUnavailabilities(w, r)
			case http.MethodPost:
				cfg.Doctors.CreateUnavailability(w, r)
			default:
				methodNotAllowed(w, http.MethodGet, http.MethodPost)
			}
		})
		mux.HandleFunc("/unavailabilities/", func(w http.ResponseWriter, r *http.Request) {
			id := strings.TrimPrefix(r.URL.Path, "/unavailabilities/")
			if id == "" {
				http.NotFound(w, r)
				return
			}
			if r.Method != http.MethodDelete {
				methodNotAllowed(w, http.MethodDelete)
				return
			}
			cfg.Doctors.DeleteUnavailability(w, r, id)
		})
	}

	var handler http.Handler = mux
	if len(cfg.Middleware) > 0 {
		for i := len(cfg.Middleware) - 1; i >= 0; i-- {
			if cfg.Middleware[i] != nil {
				handler = cfg.Middleware[i](handler)
			}
		}
	}

	return handler
}

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	if len(allowed) > 0 {
		w.Header().Set("Allow", strings.Join(allowed, ", "))
	}
	http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
}
