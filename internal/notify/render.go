package notify

import (
	"fmt"
	"html"
	"strings"
	"time"
)

// RenderReminderHTML renders the reminder email body as a simple inline-styled
// document so it survives most mail clients.
func RenderReminderHTML(title string, lines []string) string {
	var items strings.Builder
	for _, l := range lines {
		fmt.Fprintf(&items, `<li style="margin:6px 0">%s</li>`, html.EscapeString(l))
	}

	escaped := html.EscapeString(title)
	return fmt.Sprintf(`<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>%s</title>
  </head>
  <body style="font-family: -apple-system, BlinkMacSystemFont, Segoe UI, Roboto, Helvetica, Arial, sans-serif; background:#f6f7f9; margin:0; padding:24px;">
    <table role="presentation" cellpadding="0" cellspacing="0" width="100%%" style="max-width:680px; margin:0 auto; background:#fff; border:1px solid #e5e7eb; border-radius:12px;">
      <tr>
        <td style="padding:20px 20px 8px; border-bottom:1px solid #e5e7eb;">
          <div style="font-size:18px; color:#0f172a; font-weight:600;">Dream Team Finance</div>
          <div style="font-size:12px; color:#64748b; margin-top:4px;">Calm, reliable reminders</div>
        </td>
      </tr>
      <tr>
        <td style="padding:20px;">
          <div style="font-size:16px; color:#0f172a; font-weight:600; margin-bottom:10px;">%s</div>
          <ul style="padding-left:18px; margin:0;">
            %s
          </ul>
          <div style="margin-top:16px; font-size:12px; color:#64748b;">You can disable reminders any time in Settings.</div>
        </td>
      </tr>
    </table>
    <div style="text-align:center; margin-top:12px; font-size:11px; color:#94a3b8;">&copy; %d Dream Team Finance</div>
  </body>
</html>`, escaped, escaped, items.String(), time.Now().Year())
}
