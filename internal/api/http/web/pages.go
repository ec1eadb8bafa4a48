// Package web holds the HTML served by the control surface. The pages are
// deliberately tiny and frame-based so they render on anything that can
// reach the device.
package web

import (
	"fmt"
	"html"

	"github.com/nvoss/strongbox/internal/model"
)

const IndexPage = `<!DOCTYPE html>
<html>

<head>
<title>Safe</title>
</head>

<frameset rows="8%,*">
  <frame name="top" src="top_frame.html" />

  <frameset cols="30%,70%">
    <frame name="menu" src="menu_frame.html" />
    <frame name="main" src="safe/?status=1" />
  </frameset>

  <noframes>
     <body>Your browser does not support frames.</body>
  </noframes>

</frameset>

</html>
`

const TopFramePage = `<html>
<body>
<center><h1>Safe lock controls</h1></center>
</body>
</html>
`

const MenuFramePage = `<html>
<head>
  <base target="main">
  <title>Safe menu</title>
</head>
<body>
<center><h2>Menu</h2>
<p>
<form method=post action=/safe/ enctype="multipart/form-data">
<input type=submit value=Status name=status>
</form>
<hr>
<form method=post action=/safe/ enctype="multipart/form-data">
Open safe door:<br>
<select name="duration">
  <option value="5">5 seconds</option>
  <option value="10">10 seconds</option>
  <option value="20">20 seconds</option>
  <option value="30">30 seconds</option>
  <option value="60">60 seconds</option>
</select>&nbsp;&nbsp;
<input type=submit value="Open Safe" name=open>
</form>
<hr>
<form method=post action=/safe/ enctype="multipart/form-data">
Unlock pswd:<br>
<input type=password name=unlock length=40><br>
<input type=submit value="Test password" name=pwtest>
<input type=submit value="Unlock Once" name=unlock_1>
<input type=submit value="Unlock Permanent" name=unlock_all>
</form>
<hr>
<form method=post action=/safe/ enctype="multipart/form-data">
Lock safe with new password:<br>
pswd: <input type=password name=lock1 length=40><br>
Repeat: <input type=password name=lock2 length=40><br>
<input type=submit value="Lock" name=lock>
</form>
<hr>
<a href="change_auth.html">Change Safe Authentication Details</a>
<br>
<a href="change_ap.html">Change WiFi Network</a>
<hr>
<form method=post action=/logout enctype="multipart/form-data">
<input type=submit value="Log out" name=logout>
</form>
</center>
</body>
</html>
`

const ChangeAuthPage = `<html>
<body>

<form method=post action=/safe/ enctype="multipart/form-data">
To set the user name and password needed to access the safe:
<br>
Safe Username: <input name=username size=40>
<br>
Safe Password: <input name=password size=40>
<br>
<input type=submit value="Set Auth Details" name=setauth>
<hr>
If the change is accepted, you will need to login again.
</form>
</body>
</html>
`

const ChangeAPPage = `<html>
<body>

<form method=post action=/ enctype="multipart/form-data">
To set the WiFi network details, enter here:
<br>
WiFi SSID: <input name=ssid size=40>
<br>
WiFi Password: <input name=password size=40>
<br>
<input type=submit value="Set WiFi" name=setwifi>
<hr>
If the change is accepted, the safe will reboot after 5 seconds.
</form>
</body>
</html>
`

// LoginPage renders the login form, optionally with a message explaining
// why the last attempt was rejected.
func LoginPage(message string) string {
	notice := ""
	if message != "" {
		notice = fmt.Sprintf("<p><b>%s</b></p>\n<hr>\n", html.EscapeString(message))
	}
	return fmt.Sprintf(`<html>
<head><title>Safe login</title></head>
<body>
<center><h2>Safe login</h2>
%s<form method=post action=/login enctype="multipart/form-data">
Username: <input name=username size=40>
<br>
Password: <input type=password name=password size=40>
<br>
<input type=submit value="Login" name=login>
</form>
</center>
</body>
</html>
`, notice)
}

// StatusPage renders the current safe state plus an optional outcome
// message. Every mutating operation answers with this page.
func StatusPage(state model.SafeState, message string) string {
	notice := ""
	if message != "" {
		notice = fmt.Sprintf("<p>%s</p>\n", html.EscapeString(message))
	}
	return fmt.Sprintf(`<html>
<body>
<center><h2>Safe is %s</h2></center>
%s</body>
</html>
`, html.EscapeString(StateText(state)), notice)
}

// StateText is the human wording for a safe state.
func StateText(state model.SafeState) string {
	switch state {
	case model.StateLocked:
		return "LOCKED"
	case model.StateUnlockedOnce:
		return "unlocked for one opening"
	case model.StateUnlockedPermanent:
		return "UNLOCKED until explicitly locked"
	case model.StateDoorOpen:
		return "OPEN"
	default:
		return string(state)
	}
}
