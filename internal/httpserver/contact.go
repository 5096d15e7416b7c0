package httpserver

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"storefront/internal/api"
	"storefront/internal/domain"
	"storefront/internal/events"
)

func (h *handlers) contactPage(c *gin.Context) {
	h.render(c, http.StatusOK, "contact", gin.H{"Form": domain.ContactInput{}})
}

func (h *handlers) sendContact(c *gin.Context) {
	s := currentSession(c)
	in := domain.ContactInput{
		Name:    strings.TrimSpace(c.PostForm("name")),
		Email:   strings.TrimSpace(c.PostForm("email")),
		Message: strings.TrimSpace(c.PostForm("message")),
	}
	if in.Name == "" || in.Email == "" || in.Message == "" {
		s.Error("Please fill in all fields")
		h.render(c, http.StatusUnprocessableEntity, "contact", gin.H{"Form": in})
		return
	}

	msg, err := h.deps.Contact.Send(c.Request.Context(), in)
	if err != nil {
		h.logger.Error().Err(err).Msg("send contact message")
		s.Error(api.DetailOr(err, "Failed to send message. Please try again."))
		h.render(c, http.StatusOK, "contact", gin.H{"Form": in})
		return
	}
	s.Success("Thank you for your message! We'll get back to you soon.")
	e := events.New(events.ContactSent, in.Email)
	if msg != nil {
		e = e.With("message_id", strconv.FormatInt(msg.ID, 10))
	}
	h.publish(c, e)
	h.redirect(c, "/contact")
}
