package client

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"dev.c0redev.meteo/internal/measure"
	"dev.c0redev.meteo/internal/proto"
)

const (
	MsgCityUnavailable = "Città non disponibile"
	MsgInvalidRequest  = "Richiesta non valida"
)

// Message text for resp; city is the locally parsed name, not a server echo.
func Message(city string, resp proto.Response) string {
	switch resp.Status {
	case proto.StatusSuccess:
		v := resp.Value
		switch measure.Kind(resp.Type) {
		case measure.Temperature:
			return fmt.Sprintf("%s: Temperatura = %.1f°C", city, v)
		case measure.Humidity:
			return fmt.Sprintf("%s: Umidità = %.1f%%", city, v)
		case measure.Wind:
			return fmt.Sprintf("%s: Vento = %.1f km/h", city, v)
		case measure.Pressure:
			return fmt.Sprintf("%s: Pressione = %.1f hPa", city, v)
		}
		return MsgInvalidRequest
	case proto.StatusCityUnavailable:
		return MsgCityUnavailable
	default:
		return MsgInvalidRequest
	}
}

// Line: full client output; falls back to server name when the peer IP is unknown.
func Line(res *Result, server string) string {
	return fmt.Sprintf("Ricevuto risultato dal server ip %s. %s", peer(res, server), Message(res.Request.City, res.Response))
}

func peer(res *Result, server string) string {
	if res.ServerIP != "" {
		return res.ServerIP
	}
	return server
}

// Renderer styles output for w (plain text when w is not a terminal).
type Renderer struct {
	prefix lipgloss.Style
	ok     lipgloss.Style
	reject lipgloss.Style
}

// NewRenderer detects w's color profile.
func NewRenderer(w io.Writer) *Renderer {
	r := lipgloss.NewRenderer(w)
	return &Renderer{
		prefix: r.NewStyle().Faint(true),
		ok:     r.NewStyle().Bold(true).Foreground(lipgloss.Color("10")),
		reject: r.NewStyle().Foreground(lipgloss.Color("11")),
	}
}

// Render is Line with status styling.
func (r *Renderer) Render(res *Result, server string) string {
	msg := Message(res.Request.City, res.Response)
	style := r.reject
	if res.Response.OK() && msg != MsgInvalidRequest {
		style = r.ok
	}
	return r.prefix.Render("Ricevuto risultato dal server ip "+peer(res, server)+".") + " " + style.Render(msg)
}
