// data.go provides typed context helpers for passing layout data from
// handlers and middleware to page components. Only simple values are
// stored so that this package imports no plugin types.
//
// Data flow: Middleware → Echo Context → LayoutInjector → Go Context → page
package layouts

import "context"

type ctxKey string

const (
	keyIsAuthenticated ctxKey = "layout_is_authenticated"
	keyUserName        ctxKey = "layout_user_name"
	keyAdminLevel      ctxKey = "layout_admin_level"
	keyCSRFToken       ctxKey = "layout_csrf_token"
	keyActivePath      ctxKey = "layout_active_path"
	keyFlash           ctxKey = "layout_flash"
)

// Admin levels as assigned by the backend.
const (
	LevelModerator = 1
	LevelAdmin     = 2
)

// SetUser marks the request as authenticated by the given user.
func SetUser(ctx context.Context, name string, adminLevel int) context.Context {
	ctx = context.WithValue(ctx, keyIsAuthenticated, true)
	ctx = context.WithValue(ctx, keyUserName, name)
	return context.WithValue(ctx, keyAdminLevel, adminLevel)
}

func SetCSRFToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, keyCSRFToken, token)
}

func SetActivePath(ctx context.Context, path string) context.Context {
	return context.WithValue(ctx, keyActivePath, path)
}

// SetFlash stores a one-off notice shown above the page content.
func SetFlash(ctx context.Context, msg string) context.Context {
	return context.WithValue(ctx, keyFlash, msg)
}

func IsAuthenticated(ctx context.Context) bool {
	v, _ := ctx.Value(keyIsAuthenticated).(bool)
	return v
}

func GetUserName(ctx context.Context) string {
	v, _ := ctx.Value(keyUserName).(string)
	return v
}

func GetAdminLevel(ctx context.Context) int {
	v, _ := ctx.Value(keyAdminLevel).(int)
	return v
}

func GetCSRFToken(ctx context.Context) string {
	v, _ := ctx.Value(keyCSRFToken).(string)
	return v
}

func GetActivePath(ctx context.Context) string {
	v, _ := ctx.Value(keyActivePath).(string)
	return v
}

func GetFlash(ctx context.Context) string {
	v, _ := ctx.Value(keyFlash).(string)
	return v
}

// Data is the snapshot of layout values handed to the page layout.
type Data struct {
	IsAuthenticated bool
	UserName        string
	AdminLevel      int
	CSRFToken       string
	ActivePath      string
	Flash           string
}

// IsModerator reports whether the navigation shows the moderation link.
func (d Data) IsModerator() bool { return d.AdminLevel >= LevelModerator }

// IsActive reports whether path is the current section.
func (d Data) IsActive(path string) bool { return d.ActivePath == path }

// FromContext collects the layout values stored in ctx.
func FromContext(ctx context.Context) Data {
	return Data{
		IsAuthenticated: IsAuthenticated(ctx),
		UserName:        GetUserName(ctx),
		AdminLevel:      GetAdminLevel(ctx),
		CSRFToken:       GetCSRFToken(ctx),
		ActivePath:      GetActivePath(ctx),
		Flash:           GetFlash(ctx),
	}
}
