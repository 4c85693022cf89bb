package render

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/amishk599/jobdigest/internal/model"
)

const (
	// DefaultHeading is shown above the job list.
	DefaultHeading = "🗞️ Your Daily Job Digest"
	// DefaultAgentName appears in the footer line.
	DefaultAgentName = "pinkpulse"

	// dateLayout renders e.g. "October 14, 2026".
	dateLayout = "January 02, 2006"
)

var documentTemplate = template.Must(template.New("digest").Parse(`
<html>
    <body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Helvetica, Arial, sans-serif; background-color: #f9f9f9; padding: 20px; line-height: 1.6;">
        <div style="max-width: 600px; margin: auto; background-color: #ffffff; padding: 30px; border-radius: 10px; box-shadow: 0 4px 12px rgba(0,0,0,0.08);">
            <h2 style="margin-bottom: 25px; color: #333; text-align: center; font-size: 24px;">{{.Heading}}</h2>
            {{.List}}
            <p style="font-size: 12px; color: #777; margin-top: 30px; text-align: center;">
                This message was generated by your {{.AgentName}} job agent, {{.Date}}.
            </p>
        </div>
    </body>
</html>
`))

// Assembler wraps the rendered list in a complete HTML document.
type Assembler struct {
	renderer  *Renderer
	heading   string
	agentName string
	now       func() time.Time
}

// NewAssembler creates an Assembler. Empty heading or agentName select the defaults.
func NewAssembler(renderer *Renderer, heading, agentName string, now func() time.Time) *Assembler {
	if heading == "" {
		heading = DefaultHeading
	}
	if agentName == "" {
		agentName = DefaultAgentName
	}
	if now == nil {
		now = time.Now
	}
	return &Assembler{renderer: renderer, heading: heading, agentName: agentName, now: now}
}

// Assemble renders records and returns the full document, dated with the current time.
func (a *Assembler) Assemble(records []model.JobRecord) (string, error) {
	return a.AssembleAt(records, a.now())
}

// AssembleAt is Assemble with an explicit generation time.
func (a *Assembler) AssembleAt(records []model.JobRecord, at time.Time) (string, error) {
	var buf bytes.Buffer
	err := documentTemplate.Execute(&buf, struct {
		Heading   string
		AgentName string
		Date      string
		List      template.HTML
	}{
		Heading:   a.heading,
		AgentName: a.agentName,
		Date:      at.Format(dateLayout),
		// Render escapes every field itself.
		List: template.HTML(a.renderer.Render(records)),
	})
	if err != nil {
		return "", fmt.Errorf("render digest document: %w", err)
	}
	return buf.String(), nil
}
