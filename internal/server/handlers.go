package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/theirongolddev/fincoach/internal/export"
	"github.com/theirongolddev/fincoach/internal/goals"
	"github.com/theirongolddev/fincoach/internal/importer"
	"github.com/theirongolddev/fincoach/internal/model"
	"github.com/theirongolddev/fincoach/internal/projection"
	"github.com/theirongolddev/fincoach/internal/session"
)

const (
	sessionHeader = "X-Session-ID"
	sessionCookie = "fincoach_session"
	sessionKey    = "session"

	maxUploadBytes = 8 << 20
)

// sessionMiddleware attaches the caller's session, creating one on first use.
func (s *Service) sessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(sessionHeader))
		if id == "" {
			id, _ = c.Cookie(sessionCookie)
		}
		sess := s.sessions.Get(id)
		c.Header(sessionHeader, sess.ID)
		c.SetCookie(sessionCookie, sess.ID, 0, "/", "", false, true)
		c.Set(sessionKey, sess)
		c.Next()
	}
}

func current(c *gin.Context) *session.Session {
	return c.MustGet(sessionKey).(*session.Session)
}

func (s *Service) writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, model.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, model.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, session.ErrNoProfile):
		status = http.StatusConflict
	case errors.Is(err, importer.ErrNoValidData):
		status = http.StatusUnprocessableEntity
	}
	if status == http.StatusInternalServerError {
		s.log.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}

func bindJSON(c *gin.Context, dst any) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		return model.Invalid("malformed request body: %v", err)
	}
	return nil
}

func (s *Service) handleGetProfile(c *gin.Context) {
	p, ok := current(c).Profile()
	if !ok {
		s.writeError(c, session.ErrNoProfile)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (s *Service) handlePutProfile(c *gin.Context) {
	var p model.UserProfile
	if err := bindJSON(c, &p); err != nil {
		s.writeError(c, err)
		return
	}
	sess := current(c)
	if err := sess.SetProfile(p); err != nil {
		s.writeError(c, err)
		return
	}
	s.publishEvent("profile_updated", sess.ID)
	got, _ := sess.Profile()
	c.JSON(http.StatusOK, got)
}

type expensesBody struct {
	Expenses []model.Expense `json:"expenses"`
}

func (s *Service) handleGetExpenses(c *gin.Context) {
	items := current(c).Expenses().Items()
	if items == nil {
		items = []model.Expense{}
	}
	c.JSON(http.StatusOK, expensesBody{Expenses: items})
}

func (s *Service) handlePutExpenses(c *gin.Context) {
	var body expensesBody
	if err := bindJSON(c, &body); err != nil {
		s.writeError(c, err)
		return
	}
	b, err := model.NewExpenseBreakdown(body.Expenses...)
	if err != nil {
		s.writeError(c, err)
		return
	}
	sess := current(c)
	sess.SetExpenses(b)
	s.publishEvent("expenses_updated", sess.ID)
	c.JSON(http.StatusOK, expensesBody{Expenses: b.Items()})
}

func (s *Service) handleBudget(c *gin.Context) {
	report, err := current(c).Report()
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

type chatBody struct {
	Message string `json:"message"`
}

type chatReply struct {
	Role     model.Role `json:"role"`
	Text     string     `json:"text"`
	Source   string     `json:"source"`
	Degraded bool       `json:"degraded,omitempty"`
}

func (s *Service) handleChat(c *gin.Context) {
	var body chatBody
	if err := bindJSON(c, &body); err != nil {
		s.writeError(c, err)
		return
	}
	sess := current(c)
	reply, err := sess.Ask(c.Request.Context(), strings.TrimSpace(body.Message))
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.publishEvent("chat", sess.ID)
	c.JSON(http.StatusOK, chatReply{
		Role:     model.RoleAssistant,
		Text:     reply.Text,
		Source:   string(reply.Source),
		Degraded: reply.Degraded,
	})
}

func (s *Service) handleHistory(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"messages": current(c).History()})
}

type projectionBody struct {
	MonthlyAmount float64 `json:"monthly_amount"`
	AnnualRate    float64 `json:"annual_rate"`
	Years         int     `json:"years"`
}

func (s *Service) handleProjection(c *gin.Context) {
	var body projectionBody
	if err := bindJSON(c, &body); err != nil {
		s.writeError(c, err)
		return
	}
	p, err := projection.Project(body.MonthlyAmount, body.AnnualRate, body.Years)
	if err != nil {
		s.writeError(c, err)
		return
	}
	schedule, err := projection.Schedule(body.MonthlyAmount, body.AnnualRate, body.Years)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"projection": p, "schedule": schedule})
}

type goalView struct {
	model.SavingsGoal
	Progress  float64         `json:"progress_percent"`
	Remaining goals.Remaining `json:"remaining"`
}

func viewOf(g model.SavingsGoal) goalView {
	return goalView{SavingsGoal: g, Progress: g.ProgressPercent(), Remaining: goals.MonthsRemaining(g)}
}

func (s *Service) handleListGoals(c *gin.Context) {
	list, err := current(c).Goals().List()
	if err != nil {
		s.writeError(c, err)
		return
	}
	out := make([]goalView, 0, len(list))
	for _, g := range list {
		out = append(out, viewOf(g))
	}
	c.JSON(http.StatusOK, gin.H{"goals": out})
}

type goalBody struct {
	Name                string  `json:"name"`
	TargetAmount        float64 `json:"target_amount"`
	MonthlyContribution float64 `json:"monthly_contribution"`
	Priority            string  `json:"priority"`
}

func (s *Service) handleAddGoal(c *gin.Context) {
	var body goalBody
	if err := bindJSON(c, &body); err != nil {
		s.writeError(c, err)
		return
	}
	var prio model.Priority
	if body.Priority != "" {
		p, err := model.ParsePriority(body.Priority)
		if err != nil {
			s.writeError(c, err)
			return
		}
		prio = p
	}
	sess := current(c)
	g, err := sess.Goals().Add(body.Name, body.TargetAmount, body.MonthlyContribution, prio)
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.publishEvent("goal_added", sess.ID)
	c.JSON(http.StatusCreated, viewOf(g))
}

func (s *Service) handleGetGoal(c *gin.Context) {
	tracker := current(c).Goals()
	g, err := tracker.Get(c.Param("id"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	history, err := tracker.History(g.ID)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"goal": viewOf(g), "contributions": history})
}

type progressBody struct {
	Amount float64 `json:"amount"`
}

func (s *Service) handleGoalProgress(c *gin.Context) {
	var body progressBody
	if err := bindJSON(c, &body); err != nil {
		s.writeError(c, err)
		return
	}
	sess := current(c)
	g, err := sess.Goals().UpdateProgress(c.Param("id"), body.Amount)
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.publishEvent("goal_progress", sess.ID)
	c.JSON(http.StatusOK, viewOf(g))
}

func (s *Service) handleDeleteGoal(c *gin.Context) {
	sess := current(c)
	if err := sess.Goals().Remove(c.Param("id")); err != nil {
		s.writeError(c, err)
		return
	}
	s.publishEvent("goal_removed", sess.ID)
	c.Status(http.StatusNoContent)
}

// handleImport reads a multipart CSV upload. The amount and category form
// fields name the columns; apply=true replaces the session's expenses.
func (s *Service) handleImport(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes)
	fh, err := c.FormFile("file")
	if err != nil {
		s.writeError(c, model.Invalid("missing csv file: %v", err))
		return
	}
	f, err := fh.Open()
	if err != nil {
		s.writeError(c, err)
		return
	}
	defer f.Close()

	mapping := importer.Mapping{
		Amount:   c.PostForm("amount"),
		Category: c.PostForm("category"),
		Date:     c.PostForm("date"),
	}
	res, err := importer.Import(f, mapping)
	if err != nil {
		s.writeError(c, err)
		return
	}

	breakdown := res.Breakdown()
	sess := current(c)
	applied := c.PostForm("apply") == "true"
	if applied {
		sess.SetExpenses(breakdown)
		s.publishEvent("expenses_imported", sess.ID)
	}
	c.JSON(http.StatusOK, gin.H{
		"imported": len(res.Rows),
		"dropped":  res.Dropped(),
		"skipped":  res.Skipped,
		"expenses": breakdown.Items(),
		"applied":  applied,
	})
}

func (s *Service) handleExport(c *gin.Context) {
	sess := current(c)
	snap := sess.Snapshot()
	path, err := export.Write(s.cfg.ExportDir, snap, snap.ExportedAt)
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.publishEvent("exported", sess.ID)
	c.JSON(http.StatusOK, gin.H{"path": path, "data": export.Sanitize(snap)})
}

func (s *Service) handleEvents(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"events": s.eventsFor(current(c).ID)})
}
