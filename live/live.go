package live

import "fmt"

// Platform identifies a streaming platform being monitored.
type Platform string

const (
	YouTube Platform = "youtube"
	Twitch  Platform = "twitch"
)

// Platforms lists every supported platform in probe order.
var Platforms = []Platform{YouTube, Twitch}

// Title returns the human-facing platform name used in chat messages.
func (p Platform) Title() string {
	switch p {
	case YouTube:
		return "YouTube"
	case Twitch:
		return "Twitch"
	default:
		return string(p)
	}
}

func (p Platform) emoji() string {
	switch p {
	case YouTube:
		return "🎥"
	case Twitch:
		return "🎮"
	default:
		return "📺"
	}
}

// Observation is the outcome of one successful probe.
type Observation struct {
	Live bool
	// URL points at the live broadcast; empty when offline.
	URL string
}

// Offline is the zero observation.
var Offline = Observation{}

// LiveAt returns a live observation for url.
func LiveAt(url string) Observation { return Observation{Live: true, URL: url} }

// Notification announces that a creator went live. It is built and consumed
// within a single tick.
type Notification struct {
	Platform Platform
	Name     string
	URL      string
}

// Message renders the chat text for the notification.
func (n Notification) Message() string {
	return fmt.Sprintf("%s %s is now live on %s! %s", n.Platform.emoji(), n.Name, n.Platform.Title(), n.URL)
}

// WatchURL returns the public YouTube watch URL for a video id.
func WatchURL(videoID string) string { return "https://youtube.com/watch?v=" + videoID }

// ChannelURL returns the public Twitch channel URL for a login.
func ChannelURL(login string) string { return "https://twitch.tv/" + login }
