package bcasweb

import (
	"encoding/xml"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/AguayoD/bcasweb/content"
	"github.com/AguayoD/bcasweb/views"
)

type rssXML struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title       string    `xml:"title"`
	Link        string    `xml:"link"`
	Description string    `xml:"description"`
	Items       []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string  `xml:"title"`
	Link        string  `xml:"link"`
	Description string  `xml:"description"`
	PubDate     string  `xml:"pubDate,omitempty"`
	GUID        rssGUID `xml:"guid"`
}

type rssGUID struct {
	Value       string `xml:",chardata"`
	IsPermaLink bool   `xml:"isPermaLink,attr"`
}

// newsFeed builds the RSS document for news. Item dates are free text, so a
// pubDate is only emitted for dates written the way the dashboard writes
// them.
func newsFeed(site views.SiteConfig, news []content.NewsItem) rssXML {
	home := views.BuildURL(site.URL)
	items := make([]rssItem, 0, len(news))
	for _, n := range news {
		pubDate := ""
		if t, err := time.Parse(content.DateLayout, n.Date); err == nil {
			pubDate = t.Format(time.RFC1123Z)
		}
		items = append(items, rssItem{
			Title:       n.Title,
			Link:        home,
			Description: n.Content,
			PubDate:     pubDate,
			GUID:        rssGUID{Value: "news-" + strconv.FormatInt(n.ID, 10)},
		})
	}
	return rssXML{
		Version: "2.0",
		Channel: rssChannel{
			Title:       site.Name,
			Link:        home,
			Description: site.Description,
			Items:       items,
		},
	}
}

func (a *App) renderRSS(c echo.Context, news []content.NewsItem) error {
	feed := newsFeed(a.site(), news)
	c.Response().Header().Set(echo.HeaderContentType, "application/rss+xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	c.Response().Write([]byte(xml.Header))
	return xml.NewEncoder(c.Response()).Encode(feed)
}
