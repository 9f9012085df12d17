package interact

import (
	"context"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/simp-lee/folio/internal/domain"
)

// Platform is a share target.
type Platform string

const (
	Twitter  Platform = "twitter"
	Facebook Platform = "facebook"
	LinkedIn Platform = "linkedin"
	Reddit   Platform = "reddit"
	WhatsApp Platform = "whatsapp"
	Telegram Platform = "telegram"
	Email    Platform = "email"
)

// Platforms lists every share target in display order.
var Platforms = []Platform{Twitter, Facebook, LinkedIn, Reddit, WhatsApp, Telegram, Email}

// ShareLink is the share URL for one platform.
type ShareLink struct {
	Platform Platform
	URL      string
}

// ShareLinks builds the share URL of every platform for a page.
func ShareLinks(pageURL, title, description string) []ShareLink {
	links := make([]ShareLink, 0, len(Platforms))
	for _, p := range Platforms {
		links = append(links, ShareLink{Platform: p, URL: ShareURL(p, pageURL, title, description)})
	}
	return links
}

// ShareURL builds the share URL of a page for platform p, or "" for an
// unknown platform.
func ShareURL(p Platform, pageURL, title, description string) string {
	text := title
	if description != "" {
		text = title + " - " + description
	}
	q := url.Values{}
	switch p {
	case Twitter:
		q.Set("url", pageURL)
		q.Set("text", title)
		return "https://twitter.com/intent/tweet?" + q.Encode()
	case Facebook:
		q.Set("u", pageURL)
		return "https://www.facebook.com/sharer/sharer.php?" + q.Encode()
	case LinkedIn:
		q.Set("url", pageURL)
		return "https://www.linkedin.com/sharing/share-offsite/?" + q.Encode()
	case Reddit:
		q.Set("url", pageURL)
		q.Set("title", title)
		return "https://www.reddit.com/submit?" + q.Encode()
	case WhatsApp:
		q.Set("text", text+" "+pageURL)
		return "https://wa.me/?" + q.Encode()
	case Telegram:
		q.Set("url", pageURL)
		q.Set("text", text)
		return "https://t.me/share/url?" + q.Encode()
	case Email:
		return "mailto:?subject=" + mailtoEscape(title) +
			"&body=" + mailtoEscape(strings.TrimSpace(description+"\n\n"+pageURL))
	default:
		return ""
	}
}

// mailtoEscape query-escapes s with %20 for spaces, which mail clients
// expect instead of "+".
func mailtoEscape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// Sharer counts one share of a post.
type Sharer interface {
	Share(ctx context.Context, postID string) (*domain.ShareResult, error)
}

// Share opens a share link and counts it. Counting is best effort: a failure
// is logged and the link is still returned.
func Share(ctx context.Context, remote Sharer, postID string, link ShareLink) string {
	if _, err := remote.Share(ctx, postID); err != nil {
		slog.DebugContext(ctx, "share count failed",
			slog.String("post_id", postID),
			slog.String("platform", string(link.Platform)),
			slog.Any("error", err),
		)
	}
	return link.URL
}

// Clipboard writes text to the system clipboard.
type Clipboard interface {
	WriteText(text string) error
}

// CopyConfirmDuration is how long CopyLink reports a successful copy.
const CopyConfirmDuration = 2 * time.Second

// CopyLink copies a page URL and shows a short confirmation.
type CopyLink struct {
	clip   Clipboard
	revert time.Duration

	mu     sync.Mutex
	copied bool
	gen    int
}

func NewCopyLink(clip Clipboard) *CopyLink {
	return &CopyLink{clip: clip, revert: CopyConfirmDuration}
}

// Copy writes pageURL to the clipboard. Copied reports true until the
// confirmation expires.
func (c *CopyLink) Copy(pageURL string) error {
	if err := c.clip.WriteText(pageURL); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.copied = true
	c.gen++
	gen := c.gen
	time.AfterFunc(c.revert, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.gen == gen {
			c.copied = false
		}
	})
	return nil
}

func (c *CopyLink) Copied() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.copied
}
