package notification

import (
	"PantryPal/domain"
	"PantryPal/entities"
	"PantryPal/internal/metrics"
	"PantryPal/internal/utils/mailing"
	"PantryPal/pkg/inventory"
	"PantryPal/pkg/user"
	"bytes"
	"context"
	"fmt"
	"html/template"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/robfig/cron/v3"
)

const DigestWindow = 3 * 24 * time.Hour

var digestTemplate = template.Must(template.New("digest").Parse(`<html>
<body style="font-family: sans-serif;">
<h2>Hi {{.Name}},</h2>
<p>These items in your pantry are expiring soon or have already expired:</p>
<table cellpadding="6" style="border-collapse: collapse;">
<tr><th align="left">Item</th><th align="left">Where</th><th align="left">Expires</th></tr>
{{range .Items}}<tr><td>{{.Name}}</td><td>{{.LocationName}} / {{.ContainerName}}</td><td>{{.ExpirationDate.Format "2006-01-02"}}</td></tr>
{{end}}</table>
{{if .AppURL}}<p><a href="{{.AppURL}}">Open PantryPal</a></p>{{end}}
</body>
</html>`))

type (
	DigestService interface {
		Run(ctx context.Context) domain.DigestReport
	}

	digestService struct {
		userRepository user.UserRepository
		mailer         mailing.Mailer
		push           PushService
		appURL         string
		now            func() time.Time
	}

	// Scheduler runs the digest on a cron expression.
	Scheduler struct {
		cron *cron.Cron
	}
)

// NewDigestService builds the expiring items digest. mailer and push may be nil
// to disable that channel.
func NewDigestService(userRepository user.UserRepository, mailer mailing.Mailer, push PushService, appURL string) DigestService {
	return &digestService{
		userRepository: userRepository,
		mailer:         mailer,
		push:           push,
		appURL:         appURL,
		now:            time.Now,
	}
}

func (s *digestService) Run(ctx context.Context) domain.DigestReport {
	var report domain.DigestReport

	users, err := s.userRepository.FindAll(ctx)
	if err != nil {
		log.Errorw("digest: failed to list users", "error", err)
		report.Failures++
		return report
	}

	cutoff := s.now().Add(DigestWindow)
	for _, u := range users {
		if ctx.Err() != nil {
			break
		}
		report.UsersScanned++

		rows := inventory.ExpiringBefore(inventory.Project(u), cutoff)
		if len(rows) == 0 {
			continue
		}

		if s.mailer != nil {
			err := s.sendEmail(u, rows)
			metrics.RecordDigest("email", err)
			if err != nil {
				log.Errorw("digest: email failed", "user", u.Email, "error", err)
				report.Failures++
			} else {
				report.EmailsSent++
			}
		}

		if s.push != nil && len(u.PushTokens) > 0 {
			_, err := s.push.Send(ctx, domain.SendNotificationRequest{
				Tokens:  u.PushTokens,
				Title:   domain.DigestSubject,
				Message: pushSummary(rows),
				Data:    map[string]any{"type": "expiring_digest", "count": len(rows)},
			})
			metrics.RecordDigest("push", err)
			if err != nil {
				log.Errorw("digest: push failed", "user", u.Email, "error", err)
				report.Failures++
			} else {
				report.PushesSent++
			}
		}
	}

	log.Infow("digest finished",
		"users", report.UsersScanned,
		"emails", report.EmailsSent,
		"pushes", report.PushesSent,
		"failures", report.Failures,
	)
	return report
}

func (s *digestService) sendEmail(u *entities.User, rows []domain.ItemRow) error {
	name := u.Name
	if name == "" {
		name = u.Email
	}

	var body bytes.Buffer
	err := digestTemplate.Execute(&body, map[string]any{
		"Name":   name,
		"Items":  rows,
		"AppURL": s.appURL,
	})
	if err != nil {
		return err
	}
	return s.mailer.Send(u.Email, domain.DigestSubject, body.String())
}

func pushSummary(rows []domain.ItemRow) string {
	if len(rows) == 1 {
		return fmt.Sprintf("%s expires on %s.", rows[0].Name, rows[0].ExpirationDate.Format(domain.DateLayout))
	}
	return fmt.Sprintf("%s and %d other items are expiring soon.", rows[0].Name, len(rows)-1)
}

// NewScheduler registers the digest on spec, a standard five field cron expression.
func NewScheduler(spec string, digest DigestService) (*Scheduler, error) {
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()
		digest.Run(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("invalid digest schedule %q: %w", spec, err)
	}
	return &Scheduler{cron: c}, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop waits for a running digest to finish or ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
	}
}
