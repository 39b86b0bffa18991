package mailer

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/haoran-tse/tramcar/internal/model"
)

// expiredBody is the plain-text notice sent to a job's contact address when
// the posting expires.
var expiredBody = template.Must(template.New("job_expired").Parse(`Hi,

Your "{{.Title}}" job posting at {{.Company.Name}} on {{.Site.Name}} has
expired and is no longer listed.

To get the position back in front of candidates, submit a new posting at
https://{{.Site.Domain}}/ at any time.

Thanks for posting with {{.Site.Name}}!
`))

// ExpiredSubject returns the subject line for an expiration notice.
func ExpiredSubject(siteName string) string {
	return fmt.Sprintf("Your %s job has expired", siteName)
}

// RenderExpired renders the expiration notice body. The job must carry its
// Site and Company relations.
func RenderExpired(job *model.Job) (string, error) {
	var buf bytes.Buffer
	if err := expiredBody.Execute(&buf, job); err != nil {
		return "", fmt.Errorf("render expiration notice: %w", err)
	}
	return buf.String(), nil
}
