package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/icco/drumseq/internal/persist"
	"github.com/icco/drumseq/internal/rhythm"
	"github.com/icco/drumseq/internal/sequencer"
)

// StateResponse is the full session as seen by a client.
type StateResponse struct {
	Transport      sequencer.TransportState `json:"transport"`
	CurrentPattern int                      `json:"currentPattern"`
	Patterns       int                      `json:"patterns"`
	Steps          int                      `json:"steps"`
	Grid           sequencer.Grid           `json:"grid"`
	Tracks         []sequencer.TrackControl `json:"tracks"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func fail(c *gin.Context, code int, msg string) {
	c.AbortWithStatusJSON(code, errorResponse{Error: msg})
}

// healthCheck godoc
// @Summary Health check endpoint
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "drumseq",
	})
}

func (s *Server) state() StateResponse {
	opts := s.seq.Options()
	current := s.seq.CurrentPattern()
	return StateResponse{
		Transport:      s.seq.Transport(),
		CurrentPattern: current,
		Patterns:       opts.Patterns,
		Steps:          opts.Steps,
		Grid:           s.seq.Pattern(current),
		Tracks:         s.seq.Tracks(),
	}
}

// getState godoc
// @Summary Current session
// @Tags state
// @Produce json
// @Success 200 {object} StateResponse
// @Router /state [get]
func (s *Server) getState(c *gin.Context) {
	c.JSON(http.StatusOK, s.state())
}

// index parses a path parameter and checks it against [0, limit).
func index(c *gin.Context, name string, limit int) (int, bool) {
	i, err := strconv.Atoi(c.Param(name))
	if err != nil {
		fail(c, http.StatusBadRequest, name+" must be an integer")
		return 0, false
	}
	if i < 0 || i >= limit {
		fail(c, http.StatusNotFound, name+" out of range")
		return 0, false
	}
	return i, true
}

func (s *Server) track(c *gin.Context) (int, bool) {
	return index(c, "track", s.seq.Options().Tracks)
}

// getPattern godoc
// @Summary One pattern bank
// @Tags patterns
// @Produce json
// @Param pattern path int true "Pattern index"
// @Success 200 {array} []bool
// @Failure 404 {object} errorResponse
// @Router /patterns/{pattern} [get]
func (s *Server) getPattern(c *gin.Context) {
	p, ok := index(c, "pattern", s.seq.Options().Patterns)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, s.seq.Pattern(p))
}

// transport godoc
// @Summary Play, pause or stop
// @Tags transport
// @Produce json
// @Param action path string true "play, pause or stop"
// @Success 200 {object} sequencer.TransportState
// @Failure 400 {object} errorResponse
// @Router /transport/{action} [post]
func (s *Server) transport(c *gin.Context) {
	switch c.Param("action") {
	case "play":
		s.seq.Play()
	case "pause":
		s.seq.Pause()
	case "stop":
		s.seq.Stop()
	default:
		fail(c, http.StatusBadRequest, "action must be play, pause or stop")
		return
	}
	c.JSON(http.StatusOK, s.seq.Transport())
}

type bpmRequest struct {
	BPM *int `json:"bpm" binding:"required"`
}

// setBPM godoc
// @Summary Set the tempo
// @Description Values outside 60-200 are clamped.
// @Tags transport
// @Accept json
// @Produce json
// @Param body body bpmRequest true "Tempo"
// @Success 200 {object} sequencer.TransportState
// @Router /bpm [put]
func (s *Server) setBPM(c *gin.Context) {
	var req bpmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	s.seq.SetBPM(*req.BPM)
	c.JSON(http.StatusOK, s.seq.Transport())
}

func (s *Server) selectPattern(c *gin.Context) {
	p, ok := index(c, "pattern", s.seq.Options().Patterns)
	if !ok {
		return
	}
	s.seq.SwitchPattern(p)
	c.JSON(http.StatusOK, s.state())
}

type copyRequest struct {
	From *int `json:"from" binding:"required"`
	To   *int `json:"to" binding:"required"`
}

func (s *Server) copyPattern(c *gin.Context) {
	var req copyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	n := s.seq.Options().Patterns
	if *req.From < 0 || *req.From >= n || *req.To < 0 || *req.To >= n {
		fail(c, http.StatusNotFound, "pattern out of range")
		return
	}
	s.seq.CopyPattern(*req.From, *req.To)
	c.JSON(http.StatusOK, s.state())
}

func (s *Server) clearPattern(c *gin.Context) {
	s.seq.ClearPattern()
	c.JSON(http.StatusOK, s.state())
}

func (s *Server) clearAllPatterns(c *gin.Context) {
	s.seq.ClearAllPatterns()
	c.JSON(http.StatusOK, s.state())
}

// toggleStep godoc
// @Summary Toggle one step of the current pattern
// @Tags tracks
// @Produce json
// @Param track path int true "Track index"
// @Param step path int true "Step index"
// @Success 200 {object} map[string]bool
// @Failure 404 {object} errorResponse
// @Router /tracks/{track}/steps/{step}/toggle [post]
func (s *Server) toggleStep(c *gin.Context) {
	track, ok := s.track(c)
	if !ok {
		return
	}
	step, ok := index(c, "step", s.seq.Options().Steps)
	if !ok {
		return
	}
	s.seq.ToggleStep(track, step)
	on := s.seq.IsActive(track, step)
	if on && !s.seq.Transport().IsPlaying() {
		s.seq.Preview(track)
	}
	c.JSON(http.StatusOK, gin.H{"on": on})
}

type stepRequest struct {
	On bool `json:"on"`
}

func (s *Server) setStep(c *gin.Context) {
	track, ok := s.track(c)
	if !ok {
		return
	}
	step, ok := index(c, "step", s.seq.Options().Steps)
	if !ok {
		return
	}
	var req stepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	s.seq.SetStep(track, step, req.On)
	c.JSON(http.StatusOK, gin.H{"on": req.On})
}

func (s *Server) clearTrack(c *gin.Context) {
	track, ok := s.track(c)
	if !ok {
		return
	}
	s.seq.ClearTrack(track)
	c.JSON(http.StatusOK, s.state())
}

type fillRequest struct {
	Name string `json:"name" binding:"required"`
}

// fillTrack godoc
// @Summary Fill a track with a named rhythm
// @Tags tracks
// @Accept json
// @Produce json
// @Param track path int true "Track index"
// @Param body body fillRequest true "Fill name, e.g. kick-4floor, every-3, euclidean-5"
// @Success 200 {object} StateResponse
// @Failure 422 {object} errorResponse
// @Router /tracks/{track}/fill [post]
func (s *Server) fillTrack(c *gin.Context) {
	track, ok := s.track(c)
	if !ok {
		return
	}
	var req fillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	if !s.seq.Fill(track, req.Name) {
		fail(c, http.StatusUnprocessableEntity, "unknown fill "+strconv.Quote(req.Name))
		return
	}
	c.JSON(http.StatusOK, s.state())
}

type euclidRequest struct {
	Hits int `json:"hits"`
}

func (s *Server) euclidTrack(c *gin.Context) {
	track, ok := s.track(c)
	if !ok {
		return
	}
	var req euclidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	s.seq.Euclid(track, req.Hits)
	c.JSON(http.StatusOK, s.state())
}

func (s *Server) randomizeTrack(c *gin.Context) {
	track, ok := s.track(c)
	if !ok {
		return
	}
	s.seq.Randomize(track)
	c.JSON(http.StatusOK, s.state())
}

func (s *Server) muteTrack(c *gin.Context) {
	track, ok := s.track(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"muted": s.seq.ToggleMute(track)})
}

func (s *Server) soloTrack(c *gin.Context) {
	track, ok := s.track(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"solo": s.seq.ToggleSolo(track)})
}

type volumeRequest struct {
	Percent *float64 `json:"percent" binding:"required"`
}

// setVolume godoc
// @Summary Set a track's volume
// @Tags tracks
// @Accept json
// @Produce json
// @Param track path int true "Track index"
// @Param body body volumeRequest true "Volume 0-100"
// @Success 200 {object} sequencer.TrackControl
// @Router /tracks/{track}/volume [put]
func (s *Server) setVolume(c *gin.Context) {
	track, ok := s.track(c)
	if !ok {
		return
	}
	var req volumeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	s.seq.SetTrackVolume(track, *req.Percent)
	ctl, _ := s.seq.Track(track)
	c.JSON(http.StatusOK, ctl)
}

type instrumentRequest struct {
	Instrument string `json:"instrument" binding:"required"`
	Name       string `json:"name"`
}

func (s *Server) setInstrument(c *gin.Context) {
	track, ok := s.track(c)
	if !ok {
		return
	}
	var req instrumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	s.seq.SetTrackInstrument(track, req.Instrument, req.Name)
	ctl, _ := s.seq.Track(track)
	c.JSON(http.StatusOK, ctl)
}

func (s *Server) previewTrack(c *gin.Context) {
	track, ok := s.track(c)
	if !ok {
		return
	}
	s.seq.Preview(track)
	c.Status(http.StatusNoContent)
}

// listTemplates godoc
// @Summary List fill names
// @Tags info
// @Produce json
// @Success 200 {object} map[string][]string
// @Router /templates [get]
func listTemplates(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"fills":     rhythm.FillNames,
		"templates": rhythm.TemplateNames(),
	})
}

// listPresets godoc
// @Summary List presets
// @Tags info
// @Produce json
// @Success 200 {array} rhythm.Preset
// @Router /presets [get]
func listPresets(c *gin.Context) {
	presets := make([]rhythm.Preset, 0, len(rhythm.Presets))
	for _, name := range rhythm.PresetNames() {
		presets = append(presets, rhythm.Presets[name])
	}
	c.JSON(http.StatusOK, presets)
}

func (s *Server) loadPreset(c *gin.Context) {
	name := c.Param("name")
	if !s.seq.LoadPreset(name) {
		fail(c, http.StatusNotFound, "unknown preset "+strconv.Quote(name))
		return
	}
	c.JSON(http.StatusOK, s.state())
}

func (s *Server) loadDemo(c *gin.Context) {
	s.seq.LoadDemo()
	s.seq.SwitchPattern(0)
	c.JSON(http.StatusOK, s.state())
}

func (s *Server) listSlots(c *gin.Context) {
	if s.store == nil {
		c.JSON(http.StatusOK, gin.H{"slots": []string{}})
		return
	}
	slots, err := s.store.Slots()
	if err != nil {
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}
	if slots == nil {
		slots = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"slots": slots})
}

// saveSlot godoc
// @Summary Save the session to a named slot
// @Tags slots
// @Produce json
// @Param name path string true "Slot name"
// @Success 200 {object} map[string]string
// @Failure 500 {object} errorResponse
// @Router /slots/{name}/save [post]
func (s *Server) saveSlot(c *gin.Context) {
	if s.store == nil {
		fail(c, http.StatusServiceUnavailable, "no session store configured")
		return
	}
	name := c.Param("name")
	if err := s.seq.Save(c.Request.Context(), s.store, name); err != nil {
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"saved": name})
}

// loadSlot godoc
// @Summary Load a named slot
// @Description A missing or unreadable slot leaves the session unchanged.
// @Tags slots
// @Produce json
// @Param name path string true "Slot name"
// @Success 200 {object} StateResponse
// @Failure 404 {object} errorResponse
// @Failure 422 {object} errorResponse
// @Router /slots/{name}/load [post]
func (s *Server) loadSlot(c *gin.Context) {
	if s.store == nil {
		fail(c, http.StatusServiceUnavailable, "no session store configured")
		return
	}
	name := c.Param("name")
	err := s.seq.Load(c.Request.Context(), s.store, name)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, s.state())
	case persist.IsNotFound(err):
		fail(c, http.StatusNotFound, "no saved session "+strconv.Quote(name))
	case persist.IsCorrupt(err):
		fail(c, http.StatusUnprocessableEntity, "saved session "+strconv.Quote(name)+" is unreadable")
	default:
		fail(c, http.StatusInternalServerError, err.Error())
	}
}
