// Package omi is the adapter for the OMI wearable platform: an outbound
// notification sender and the inbound webhook that acknowledges captured
// speech with a push notification.
package omi

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

const defaultBaseURL = "https://api.omi.me"

var (
	ErrNotConfigured  = errors.New("omi: missing app id or app secret")
	ErrUserIDRequired = errors.New("omi: user id is required")
)

// Notifier sends direct push notifications to an OMI user. Single outbound
// POST, no retry state machine.
type Notifier struct {
	http      *resty.Client
	appID     string
	appSecret string
}

func NewNotifier(appID, appSecret, baseURL string) *Notifier {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	c := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(15 * time.Second)

	return &Notifier{http: c, appID: appID, appSecret: appSecret}
}

// SendNotification pushes message to the OMI user identified by userID.
// OMI's notification endpoint takes both uid and message as query params.
func (n *Notifier) SendNotification(ctx context.Context, userID, message string) error {
	if n.appID == "" || n.appSecret == "" {
		return ErrNotConfigured
	}
	if userID == "" {
		return ErrUserIDRequired
	}

	resp, err := n.http.R().
		SetContext(ctx).
		SetAuthToken(n.appSecret).
		SetQueryParam("uid", userID).
		SetQueryParam("message", message).
		Post(fmt.Sprintf("/v2/integrations/%s/notification", n.appID))
	if err != nil {
		return fmt.Errorf("omi: notification request: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("omi: notification failed: %s: %s", resp.Status(), resp.String())
	}
	return nil
}
