package handlers

import "strings"

// InjectCSS embeds css into html as a <style> block using plain substring
// rewriting, no HTML parsing. The first matching insertion point wins and
// only its first occurrence is touched; a "</head>" inside a comment or
// script string still counts. An empty css is the identity.
func InjectCSS(html, css string) string {
	if css == "" {
		return html
	}
	cssTag := "<style>" + css + "</style>"
	if strings.Contains(html, "</head>") {
		return strings.Replace(html, "</head>", cssTag+"</head>", 1)
	}
	if strings.Contains(html, "<body>") {
		return strings.Replace(html, "<body>", "<head>"+cssTag+"</head><body>", 1)
	}
	return "<html><head>" + cssTag + "</head><body>" + html + "</body></html>"
}
