package domain

import (
	"html"
	"strconv"
	"strings"
)

// AnnouncementValues carries substitution values for the channel post.
type AnnouncementValues struct {
	Num       int64
	Username  string
	Stars     int
	Reaction  int
	Boost     int
	BoostLink string
}

// RenderAnnouncement substitutes the fixed placeholder set
// {num} {username} {stars} {reaction} {boost} {boost_link} into tmpl.
// Every value is HTML-escaped before substitution. Braces outside the
// recognized set pass through untouched, so a typo in an admin-supplied
// template degrades to literal text instead of an error.
func RenderAnnouncement(tmpl string, v AnnouncementValues) string {
	r := strings.NewReplacer(
		"{num}", html.EscapeString(strconv.FormatInt(v.Num, 10)),
		"{username}", html.EscapeString(v.Username),
		"{stars}", html.EscapeString(strconv.Itoa(v.Stars)),
		"{reaction}", html.EscapeString(strconv.Itoa(v.Reaction)),
		"{boost}", html.EscapeString(strconv.Itoa(v.Boost)),
		"{boost_link}", html.EscapeString(v.BoostLink),
	)
	return r.Replace(tmpl)
}
