package web

import (
	"net/http"
	"time"

	"daydesk/internal/agenda"
	"daydesk/internal/config"
	appLog "daydesk/internal/log"
	"daydesk/internal/model"
	"daydesk/internal/schedule"
)

// scheduleResponse is the JSON shape of one computed view. Buckets and
// lanes reference items by id so each item is serialized once.
type scheduleResponse struct {
	Mode       schedule.Mode       `json:"mode"`
	RangeStart time.Time           `json:"range_start"`
	RangeEnd   time.Time           `json:"range_end"`
	Timezone   string              `json:"timezone"`
	WeekStart  string              `json:"week_start"`
	Items      []itemDTO           `json:"items"`
	Buckets    map[string][]string `json:"buckets"`
	Weeks      []weekDTO           `json:"weeks,omitempty"`
}

type itemDTO struct {
	ID          string          `json:"id"`
	Kind        model.ItemKind  `json:"kind"`
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	Location    string          `json:"location,omitempty"`
	Start       time.Time       `json:"start"`
	End         time.Time       `json:"end"`
	AllDay      bool            `json:"all_day"`
	Source      model.SourceRef `json:"source"`
}

type weekDTO struct {
	LaneCount int       `json:"lane_count"`
	Lanes     []laneDTO `json:"lanes"`
}

type laneDTO struct {
	ItemID   string `json:"item_id"`
	StartIdx int    `json:"start_idx"`
	EndIdx   int    `json:"end_idx"`
	Lane     int    `json:"lane"`
}

// handleSchedule computes (or serves from the short-lived cache) the
// view for one mode and reference date.
//
// GET /api/schedule?mode=day|week|month&date=YYYY-MM-DD
func (s *Server) handleSchedule(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	mode := schedule.Mode(q.Get("mode"))
	switch mode {
	case schedule.ModeDay, schedule.ModeWeek, schedule.ModeMonth:
	case "":
		mode = schedule.ModeMonth
	default:
		writeError(w, http.StatusBadRequest, "unknown mode")
		return
	}

	loc := s.cfg.Location()
	ref := time.Now().In(loc)
	if d := q.Get("date"); d != "" {
		parsed, err := time.ParseInLocation("2006-01-02", d, loc)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad date, want YYYY-MM-DD")
			return
		}
		ref = parsed
	}

	key := string(mode) + "|" + ref.Format("2006-01-02")

	s.viewMu.RLock()
	cached, ok := s.viewCache[key]
	s.viewMu.RUnlock()
	if ok && time.Since(cached.updatedAt) < viewCacheTTL {
		writeJSON(w, http.StatusOK, cached.resp)
		return
	}

	view := s.agenda.ViewAt(mode, ref)
	resp := toScheduleResponse(view, s.cfg)

	s.viewMu.Lock()
	s.viewCache[key] = &cachedView{resp: resp, updatedAt: time.Now()}
	s.viewMu.Unlock()

	appLog.Debug("schedule view computed",
		"mode", mode,
		"date", ref.Format("2006-01-02"),
		"items", len(view.Items),
	)
	writeJSON(w, http.StatusOK, resp)
}

func toScheduleResponse(view agenda.View, cfg *config.Config) scheduleResponse {
	resp := scheduleResponse{
		Mode:       view.Mode,
		RangeStart: view.RangeStart,
		RangeEnd:   view.RangeEnd,
		Timezone:   cfg.Location().String(),
		WeekStart:  cfg.WeekStart,
		Items:      make([]itemDTO, 0, len(view.Items)),
		Buckets:    make(map[string][]string, len(view.Buckets)),
	}

	for _, item := range view.Items {
		resp.Items = append(resp.Items, itemDTO{
			ID:          item.ID,
			Kind:        item.Kind,
			Title:       item.Title,
			Description: item.Description,
			Location:    item.Location,
			Start:       item.Start,
			End:         item.End,
			AllDay:      item.AllDay,
			Source:      item.Source,
		})
	}

	for key, items := range view.Buckets {
		ids := make([]string, 0, len(items))
		for _, item := range items {
			ids = append(ids, item.ID)
		}
		resp.Buckets[key] = ids
	}

	for _, week := range view.Weeks {
		wd := weekDTO{LaneCount: week.LaneCount, Lanes: make([]laneDTO, 0, len(week.Assignments))}
		for _, la := range week.Assignments {
			wd.Lanes = append(wd.Lanes, laneDTO{
				ItemID:   la.Segment.Item.ID,
				StartIdx: la.Segment.StartIdx,
				EndIdx:   la.Segment.EndIdx,
				Lane:     la.Lane,
			})
		}
		resp.Weeks = append(resp.Weeks, wd)
	}

	return resp
}
