// Package notify delivers admitted listings to a chat channel.
package notify

import (
	"fmt"
	"strings"

	"github.com/slack-go/slack"

	"apartment-hunter/models"
)

// Notifier receives one message per admitted listing. Delivery failures are
// logged by the caller and never retried within a pass.
type Notifier interface {
	Notify(listing *models.Listing) error
}

// SlackNotifier posts admitted listings to a Slack channel.
type SlackNotifier struct {
	api     *slack.Client
	channel string
}

// NewSlackNotifier creates a SlackNotifier posting to the given channel.
func NewSlackNotifier(token, channel string) *SlackNotifier {
	return &SlackNotifier{
		api:     slack.New(token),
		channel: channel,
	}
}

// Notify formats and posts one listing.
func (n *SlackNotifier) Notify(l *models.Listing) error {
	_, _, err := n.api.PostMessage(
		n.channel,
		slack.MsgOptionText(FormatListing(l), false),
		slack.MsgOptionUsername("hunterbot"),
		slack.MsgOptionIconEmoji(":robot_face:"),
	)
	if err != nil {
		return fmt.Errorf("slack: post to %s: %w", n.channel, err)
	}
	return nil
}

// FormatListing renders the notification message: a headline with area,
// price and linked title, one line per resolved POI with its walking
// duration, the matched keyword names, and the primary image when present.
func FormatListing(l *models.Listing) string {
	lines := []string{
		fmt.Sprintf("%s | $%.0f | <%s|%s>", strings.Join(l.Areas, ", "), l.Price, l.URL, l.Title),
	}

	for _, poi := range l.POIs {
		lines = append(lines, fmt.Sprintf("* %s walk to %s", poi.Duration.Text, poi.Name))
	}

	if len(l.Keywords) > 0 {
		lines = append(lines, "keywords: "+strings.Join(l.Keywords, ", "))
	}

	if l.Image != "" {
		lines = append(lines, l.Image)
	}

	return strings.Join(lines, "\n")
}
