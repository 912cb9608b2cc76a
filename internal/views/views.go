package views

import (
	"embed"
	"net/http"

	"github.com/gofiber/template/html/v2"
)

// Layout wraps every rendered page.
const Layout = "layouts/main"

//go:embed *.html layouts/*.html
var files embed.FS

// NewEngine returns a view engine over the embedded templates.
func NewEngine() *html.Engine {
	return html.NewFileSystem(http.FS(files), ".html")
}
