package clients

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/net/html"
)

// CSS classes boston.gov uses for the service-status strip on its front
// page. Service names and their status texts appear in matching document
// order; an optional storm banner is split across three header elements.
var (
	serviceNameClasses = []string{"cds-t", "t--upper", "t--sans", "m-b300"}
	serviceInfoClasses = []string{"cds-d", "t--subinfo"}

	headerClassSets = [][]string{
		{"t--upper", "t--sans", "lh--000", "t--cb"},
		{"str", "str--r", "m-v300"},
		{"t--sans", "t--cb", "lh--000", "m-b500"},
	}
)

// CityAlerts scrapes the citywide service-status strip from the city's
// home page.
type CityAlerts struct {
	url    string
	httpc  *http.Client
	logger *zap.Logger
}

// NewCityAlerts creates a scraper for the given page URL.
func NewCityAlerts(url string, httpc *http.Client, logger *zap.Logger) *CityAlerts {
	return &CityAlerts{url: url, httpc: httpc, logger: logger}
}

// Alerts fetches the page and returns the status text per service display
// name. The alert header, when a banner is present, is stored under the
// "Alert header" key; with no banner the key maps to an empty string.
func (c *CityAlerts) Alerts(ctx context.Context) (map[string]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrBadAPIResponse, resp.StatusCode)
	}

	doc, err := html.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadAPIResponse, err)
	}

	alerts := ParseAlertsPage(doc)
	c.logger.Debug("scraped city alerts", zap.Int("services", len(alerts)))
	return alerts, nil
}

// ParseAlertsPage extracts the service-status map from a parsed page.
func ParseAlertsPage(doc *html.Node) map[string]string {
	var names, infos []string
	walk(doc, func(n *html.Node) {
		switch {
		case hasClasses(n, serviceNameClasses):
			names = append(names, textContent(n))
		case hasClasses(n, serviceInfoClasses):
			infos = append(infos, strings.ReplaceAll(textContent(n), " ", " "))
		}
	})

	alerts := make(map[string]string, len(names)+1)
	for i, name := range names {
		if i < len(infos) {
			alerts[name] = infos[i]
		}
	}

	var header []string
	for _, classes := range headerClassSets {
		if text, ok := findFirst(doc, classes); ok {
			header = append(header, text)
		}
	}
	// All three header pieces are present on a banner day; a partial match
	// is page chrome, not an alert.
	if len(header) == len(headerClassSets) {
		alerts["Alert header"] = strings.Join(header, ". ")
	} else {
		alerts["Alert header"] = ""
	}
	return alerts
}

func walk(n *html.Node, visit func(*html.Node)) {
	visit(n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, visit)
	}
}

func findFirst(doc *html.Node, classes []string) (string, bool) {
	var text string
	var found bool
	walk(doc, func(n *html.Node) {
		if !found && hasClasses(n, classes) {
			text = textContent(n)
			found = true
		}
	})
	return text, found
}

// hasClasses reports whether an element node carries every class in want.
func hasClasses(n *html.Node, want []string) bool {
	if n.Type != html.ElementNode {
		return false
	}
	var have []string
	for _, attr := range n.Attr {
		if attr.Key == "class" {
			have = strings.Fields(attr.Val)
			break
		}
	}
	if len(have) == 0 {
		return false
	}
	for _, w := range want {
		hit := false
		for _, h := range have {
			if h == w {
				hit = true
				break
			}
		}
		if !hit {
			return false
		}
	}
	return true
}

func textContent(n *html.Node) string {
	var b strings.Builder
	walk(n, func(c *html.Node) {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
	})
	return strings.TrimSpace(b.String())
}
