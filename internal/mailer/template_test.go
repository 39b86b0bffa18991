package mailer

import (
	"strings"
	"testing"

	"github.com/haoran-tse/tramcar/internal/model"
)

func TestRenderExpired(t *testing.T) {
	job := &model.Job{
		Title:   "Go Engineer",
		Company: model.Company{Name: "Corp"},
		Site:    model.Site{Name: "DevBoard", Domain: "devboard.test"},
	}

	body, err := RenderExpired(job)
	if err != nil {
		t.Fatalf("RenderExpired returned error: %v", err)
	}
	for _, want := range []string{"Go Engineer", "Corp", "DevBoard", "https://devboard.test/"} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q:\n%s", want, body)
		}
	}
}

func TestExpiredSubject(t *testing.T) {
	got := ExpiredSubject("DevBoard")
	if got != "Your DevBoard job has expired" {
		t.Errorf("ExpiredSubject = %q", got)
	}
}
