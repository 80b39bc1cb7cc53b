package help

// HelpText contains information about a screen
type HelpText struct {
	Title       string
	Description string
	Details     string
}

// Texts contains help for every kiosk screen, keyed by screen name
var Texts = map[string]HelpText{
	"welcome": {
		Title:       "WELCOME",
		Description: "Choose the kiosk language and accessibility options.",
		Details: `English, Akan (Twi) or Français.
Voice guidance plays a spoken prompt on each screen.
Large text enlarges every screen.`,
	},
	"identification": {
		Title:       "IDENTIFICATION",
		Description: "Hold your Ghana Card or NHIS card up to the camera.",
		Details: `The card is photographed after a 3 second countdown.
r: try again    m: type your details instead`,
	},
	"biometrics": {
		Title:       "HEIGHT & WEIGHT",
		Description: "Stand on the scale under the height sensor.",
		Details:     "Your BMI is calculated from both readings.",
	},
	"temperature": {
		Title:       "TEMPERATURE",
		Description: "Hold your forehead close to the thermometer.",
		Details:     "Normal is 36.1 to 37.5 °C.",
	},
	"spo2": {
		Title:       "OXYGEN SATURATION",
		Description: "Place your index finger in the pulse oximeter.",
		Details:     "Normal is 95% or more. Keep your hand still.",
	},
	"heart-rate": {
		Title:       "HEART RATE & BLOOD PRESSURE",
		Description: "Put your arm in the cuff and relax.",
		Details: `Normal heart rate is 60 to 100 bpm.
Normal blood pressure is 90/60 to 140/90 mmHg.`,
	},
	"dashboard": {
		Title:       "HEALTH DASHBOARD",
		Description: "All of your readings with their status.",
		Details: `Overall health is Good when every reading is normal,
Fair with one or two abnormal readings. More, or any critical
reading, Needs Attention.`,
	},
	"pain-selection": {
		Title:       "PAIN AREAS",
		Description: "Mark where it hurts, then describe your symptoms.",
		Details: `↑/↓: move    space: select    v: front/back    g: figure
tab: describe symptoms    s: skip`,
	},
	"ai-conversation": {
		Title:       "AI CONSULTATION",
		Description: "Answer the assistant's questions about your symptoms.",
		Details: `Speak when voice is available, otherwise type.
ctrl+d: finish the conversation`,
	},
	"summary": {
		Title:       "DIAGNOSIS SUMMARY",
		Description: "The preliminary assessment of your consultation.",
		Details:     "Choose medication, a video consultation or a referral.",
	},
	"consultation": {
		Title:       "VIDEO CONSULTATION",
		Description: "You will be connected to a doctor.",
		Details:     "m: microphone on/off    v: video on/off",
	},
	"medication": {
		Title:       "MEDICATION",
		Description: "Collect your medication from the dispenser.",
		Details:     "Read the instructions and warnings before taking it.",
	},
	"referral": {
		Title:       "REFERRAL",
		Description: "Nearby clinics that can see you.",
		Details:     "Your receipt lists the visit reference to show at the clinic.",
	},
	"exit": {
		Title:       "FEEDBACK",
		Description: "Rate your visit from 1 to 5 stars.",
		Details:     "1-5: rating    tab: comments    enter: submit",
	},
}
