package handlers

import (
	"html/template"
	"io"
	"net/http"
	"strconv"
	"strings"

	"qr-feedback-backend/internal/models"
)

var (
	feedbackFormTmpl = template.Must(template.New("form").Parse(feedbackFormHTML))
	thankYouTmpl     = template.Must(template.New("thanks").Parse(thankYouHTML))
)

type likertQuestion struct {
	Number int
	Name   string
	Text   string
}

type feedbackFormData struct {
	AdvisorName string
	AdvisorID   string
	Questions   []likertQuestion
	Scale       []int
}

func renderFeedbackForm(w io.Writer, advisor *models.Advisor) error {
	data := feedbackFormData{
		AdvisorName: advisor.Name,
		AdvisorID:   advisor.ID.Hex(),
		Scale:       []int{1, 2, 3, 4, 5},
	}
	for i, q := range models.Questions {
		n := i + 1
		data.Questions = append(data.Questions, likertQuestion{
			Number: n,
			Name:   "q" + strconv.Itoa(n),
			Text:   q,
		})
	}
	return feedbackFormTmpl.Execute(w, data)
}

func renderThankYou(w io.Writer) error {
	return thankYouTmpl.Execute(w, nil)
}

// QRCodeFiles serves generated QR images below prefix. Directory listings are not exposed.
func QRCodeFiles(dir, prefix string) http.Handler {
	files := http.StripPrefix(prefix, http.FileServer(http.Dir(dir)))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Cache-Control", "public, max-age=31557600")
		files.ServeHTTP(w, r)
	})
}

const feedbackFormHTML = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1.0"/>
  <title>Client Advisor Feedback</title>
  <style>
    body { background-color: #f5f5f5; font-family: 'Helvetica Neue', sans-serif; color: #111; max-width: 640px; margin: 0 auto; padding: 20px; }
    h2 { margin-bottom: 4px; }
    .subtext { color: #444; font-size: 20px; margin-bottom: 24px; }
    label { display: block; margin-top: 18px; font-weight: 600; }
    .likert { display: flex; gap: 12px; margin-top: 8px; }
    .likert label { font-weight: 400; margin-top: 0; }
    input[type=text], textarea { width: 100%; padding: 10px; border: 1px solid #ccc; border-radius: 8px; box-sizing: border-box; }
    .checkbox-group { margin-top: 18px; display: flex; gap: 8px; align-items: center; }
    button { margin-top: 24px; width: 100%; padding: 14px; background: #111; color: #fff; border: 0; border-radius: 8px; font-size: 16px; }
  </style>
  <script>
    function validateForm() {
      const name = document.forms[0]["customerName"].value.trim();
      const agreement = document.forms[0]["agree"].checked;
      if (!name) {
        alert("Please enter your name.");
        return false;
      }
      if (!agreement) {
        alert("You must agree to the terms and conditions before submitting.");
        return false;
      }
      return true;
    }
  </script>
</head>
<body>
  <h2>Leave Feedback for</h2>
  <div class="subtext">{{.AdvisorName}}</div>
  <form action="/api/feedback/submit/{{.AdvisorID}}" method="POST" onsubmit="return validateForm()">
    <label>Your Name:</label>
    <input type="text" name="customerName" required placeholder="e.g. John Smith" />
    {{- range $q := .Questions}}
    <label>{{$q.Number}}. {{$q.Text}}</label>
    <div class="likert">
      {{- range $.Scale}}
      <label><input type="radio" name="{{$q.Name}}" value="{{.}}" required> {{.}}</label>
      {{- end}}
    </div>
    {{- end}}
    <label>6. Additional Comments (Optional):</label>
    <textarea name="comment" rows="4" placeholder="Your comments..."></textarea>
    <div class="checkbox-group">
      <input type="checkbox" name="agree" />
      <span>I agree to the confidentiality terms of this feedback.</span>
    </div>
    <button type="submit">Submit Feedback</button>
  </form>
</body>
</html>
`

const thankYouHTML = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1.0"/>
  <title>Thank You</title>
  <style>
    body { background-color: #f5f5f5; font-family: 'Helvetica Neue', sans-serif; color: #111; display: flex; flex-direction: column; align-items: center; justify-content: center; height: 100vh; margin: 0; padding: 20px; }
    .box { background-color: #fff; padding: 40px; border-radius: 12px; box-shadow: 0 4px 12px rgba(0,0,0,0.1); text-align: center; max-width: 400px; }
    h1 { font-size: 32px; margin-bottom: 16px; }
    p { font-size: 16px; margin: 6px 0; color: #444; }
  </style>
</head>
<body>
  <div class="box">
    <h1>Thank you!</h1>
    <p>Your feedback has been successfully recorded.</p>
    <p>You may close the page now.</p>
  </div>
</body>
</html>
`
