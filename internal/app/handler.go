package app

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/stolasapp/inotebook/internal/content"
	"github.com/stolasapp/inotebook/internal/notebook"
	"github.com/stolasapp/inotebook/internal/sec"
	"github.com/stolasapp/inotebook/internal/storage/db"
)

type handler struct {
	svc *notebook.Service
}

func (h handler) register(api *echo.Group, gate echo.MiddlewareFunc) {
	accounts := api.Group("/accounts")
	accounts.POST("/create", h.createAccount)
	accounts.POST("/login", h.login)
	accounts.GET("/get", h.getAccount, gate)
	accounts.PUT("/update", h.updateAccount, gate)
	accounts.POST("/password", h.changePassword, gate)
	accounts.DELETE("/delete/:id", h.deleteAccount, gate)

	notes := api.Group("/notes")
	notes.GET("/get", h.listNotes, gate)
	notes.GET("/get/:id", h.getNote, gate)
	notes.POST("/create", h.createNote, gate)
	notes.PUT("/update/:id", h.updateNote, gate)
	notes.DELETE("/delete/:id", h.deleteNote, gate)
}

// IDs are snowflakes and exceed the range JavaScript numbers represent
// exactly, so they are encoded as strings.

type accountView struct {
	ID         uint64    `json:"id,string"`
	Email      string    `json:"email"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	Mobile     string    `json:"mobile"`
	CreateTime time.Time `json:"create_time"`
	UpdateTime time.Time `json:"update_time"`
}

func toAccountView(account db.Account) accountView {
	return accountView{
		ID:         account.ID,
		Email:      account.Email,
		FirstName:  account.FirstName,
		LastName:   account.LastName,
		Mobile:     account.Mobile,
		CreateTime: account.CreateTime,
		UpdateTime: account.UpdateTime,
	}
}

type sessionView struct {
	Account accountView `json:"account"`
	Token   string      `json:"token"`
}

func toSessionView(session notebook.Session) sessionView {
	return sessionView{
		Account: toAccountView(session.Account),
		Token:   session.Token,
	}
}

type noteView struct {
	ID         uint64    `json:"id,string"`
	AccountID  uint64    `json:"account_id,string"`
	Note       string    `json:"note"`
	HTML       string    `json:"html,omitempty"`
	CreateTime time.Time `json:"create_time"`
	UpdateTime time.Time `json:"update_time"`
}

func toNoteView(note db.Note) noteView {
	return noteView{
		ID:         note.ID,
		AccountID:  note.AccountID,
		Note:       note.Body,
		CreateTime: note.CreateTime,
		UpdateTime: note.UpdateTime,
	}
}

// renderNote converts note into its view, adding the rendered body when an
// HTML format is requested.
func renderNote(note db.Note, format content.Format) (noteView, error) {
	view := toNoteView(note)
	if format == content.FormatHTML {
		rendered, err := content.Render(note.Body, format)
		if err != nil {
			return view, err
		}
		view.HTML = rendered
	}
	return view, nil
}

type createAccountRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8,max=72"`
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Mobile    string `json:"mobile" validate:"required,len=10,numeric"`
}

func (h handler) createAccount(c echo.Context) error {
	req, err := bind[createAccountRequest](c)
	if err != nil {
		return err
	}
	session, err := h.svc.CreateAccount(c.Request().Context(), notebook.NewAccount{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Mobile:    req.Mobile,
	})
	if err != nil {
		return toHTTPError(err)
	}
	return respond(c, http.StatusCreated, "account created", toSessionView(session))
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

func (h handler) login(c echo.Context) error {
	req, err := bind[loginRequest](c)
	if err != nil {
		return err
	}
	session, err := h.svc.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return toHTTPError(err)
	}
	return respond(c, http.StatusAccepted, "logged in", toSessionView(session))
}

func (h handler) getAccount(c echo.Context) error {
	principal, err := principalOf(c)
	if err != nil {
		return err
	}
	account, err := h.svc.GetAccount(c.Request().Context(), principal)
	if err != nil {
		return toHTTPError(err)
	}
	return respond(c, http.StatusOK, "account found", toAccountView(account))
}

type updateAccountRequest struct {
	Email     string `json:"email" validate:"required,email"`
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Mobile    string `json:"mobile" validate:"required,len=10,numeric"`
}

func (h handler) updateAccount(c echo.Context) error {
	principal, err := principalOf(c)
	if err != nil {
		return err
	}
	req, err := bind[updateAccountRequest](c)
	if err != nil {
		return err
	}
	account, err := h.svc.UpdateAccount(c.Request().Context(), principal, notebook.Profile{
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Mobile:    req.Mobile,
	})
	if err != nil {
		return toHTTPError(err)
	}
	return respond(c, http.StatusOK, "account updated", toAccountView(account))
}

type changePasswordRequest struct {
	Password    string `json:"password" validate:"required,min=8,max=72"`
	NewPassword string `json:"new_password" validate:"required,min=8,max=72"`
}

func (h handler) changePassword(c echo.Context) error {
	principal, err := principalOf(c)
	if err != nil {
		return err
	}
	req, err := bind[changePasswordRequest](c)
	if err != nil {
		return err
	}
	err = h.svc.ChangePassword(c.Request().Context(), principal, req.Password, req.NewPassword)
	if err != nil {
		return toHTTPError(err)
	}
	return respond(c, http.StatusCreated, "password changed", nil)
}

func (h handler) deleteAccount(c echo.Context) error {
	principal, err := principalOf(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err = h.svc.DeleteAccount(c.Request().Context(), principal, id); err != nil {
		return toHTTPError(err)
	}
	return respond(c, http.StatusOK, "account deleted", nil)
}

type listNotesResponse struct {
	Notes         []noteView `json:"notes"`
	NextPageToken string     `json:"next_page_token,omitempty"`
}

func (h handler) listNotes(c echo.Context) error {
	principal, err := principalOf(c)
	if err != nil {
		return err
	}
	var size int64
	if raw := c.QueryParam("page_size"); raw != "" {
		size, err = strconv.ParseInt(raw, 10, 32)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid page_size")
		}
	}
	format, err := formatParam(c)
	if err != nil {
		return err
	}
	page, err := h.svc.ListNotes(c.Request().Context(), principal, notebook.Page{
		Size:  int32(size),
		Token: c.QueryParam("page_token"),
	})
	if err != nil {
		return toHTTPError(err)
	}

	out := listNotesResponse{
		Notes:         make([]noteView, len(page.Notes)),
		NextPageToken: page.NextPageToken,
	}
	for i, note := range page.Notes {
		if out.Notes[i], err = renderNote(note, format); err != nil {
			return err
		}
	}
	return respond(c, http.StatusOK, "notes found", out)
}

func (h handler) getNote(c echo.Context) error {
	principal, err := principalOf(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	format, err := formatParam(c)
	if err != nil {
		return err
	}
	note, err := h.svc.GetNote(c.Request().Context(), principal, id)
	if err != nil {
		return toHTTPError(err)
	}
	view, err := renderNote(note, format)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "note found", view)
}

type noteRequest struct {
	Note string `json:"note" validate:"required,min=1"`
}

type createNoteResponse struct {
	NoteID uint64 `json:"note_id,string"`
}

func (h handler) createNote(c echo.Context) error {
	principal, err := principalOf(c)
	if err != nil {
		return err
	}
	req, err := bind[noteRequest](c)
	if err != nil {
		return err
	}
	note, err := h.svc.CreateNote(c.Request().Context(), principal, req.Note)
	if err != nil {
		return toHTTPError(err)
	}
	return respond(c, http.StatusOK, "note created", createNoteResponse{NoteID: note.ID})
}

func (h handler) updateNote(c echo.Context) error {
	principal, err := principalOf(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	req, err := bind[noteRequest](c)
	if err != nil {
		return err
	}
	note, err := h.svc.UpdateNote(c.Request().Context(), principal, id, req.Note)
	if err != nil {
		return toHTTPError(err)
	}
	return respond(c, http.StatusOK, "note updated", toNoteView(note))
}

func (h handler) deleteNote(c echo.Context) error {
	principal, err := principalOf(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err = h.svc.DeleteNote(c.Request().Context(), principal, id); err != nil {
		return toHTTPError(err)
	}
	return respond(c, http.StatusOK, "note deleted", nil)
}

// bind decodes the request body into a T and validates it.
func bind[T any](c echo.Context) (T, error) {
	var req T
	if err := (&echo.DefaultBinder{}).BindBody(c, &req); err != nil {
		return req, err
	}
	if err := c.Validate(&req); err != nil {
		return req, toHTTPError(err)
	}
	return req, nil
}

// principalOf returns the principal attached by the gate. Routes registered
// without the gate never call it.
func principalOf(c echo.Context) (uint64, error) {
	id, ok := sec.PrincipalFrom(c.Request().Context())
	if !ok {
		return 0, echo.NewHTTPError(http.StatusForbidden, "auth required")
	}
	return id, nil
}

func formatParam(c echo.Context) (content.Format, error) {
	format, err := content.ParseFormat(c.QueryParam("format"))
	if err != nil {
		return "", echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return format, nil
}

func pathID(c echo.Context) (uint64, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return id, nil
}
