package questions

import (
	"github.com/guestwise/guestflow/pkg/models"
	"github.com/guestwise/guestflow/pkg/strategy"
)

// templateKey addresses one template variant.
type templateKey struct {
	bucket models.BucketID
	style  strategy.Style
}

// defaultQuestions is the per-bucket fallback used when no style variant
// exists. Every catalog bucket has an entry.
var defaultQuestions = map[models.BucketID]string{
	models.BucketFullName:            "What's your full name, as you'd like it to appear on podcasts?",
	models.BucketEmail:               "What's the best email for podcast hosts to reach you?",
	models.BucketLinkedInURL:         "Could you share your LinkedIn profile URL? I can pull a lot of your background from there.",
	models.BucketPhone:               "What's a good phone number for you?",
	models.BucketWebsite:             "Do you have a website you'd like hosts to mention?",
	models.BucketSocialMedia:         "Where can listeners find you on social media?",
	models.BucketCurrentRole:         "What's your current role or title?",
	models.BucketCompany:             "What company or organization are you with?",
	models.BucketProfessionalBio:     "Could you give me a short professional bio — a few sentences about what you do and how you got here?",
	models.BucketYearsExperience:     "How many years of experience do you have in your field?",
	models.BucketExpertiseKeywords:   "What topics or skills would you say you're a genuine expert in? Three or more is ideal.",
	models.BucketSuccessStories:      "What's a concrete win or client story you could tell on air?",
	models.BucketAchievements:        "Any awards, publications, or recognitions worth mentioning?",
	models.BucketUniquePerspective:   "What's a take you hold that most people in your field would disagree with?",
	models.BucketPodcastTopics:       "What topics do you most want to talk about on podcasts? A couple is perfect.",
	models.BucketTargetAudience:      "Who do you most want to reach — who's your ideal listener?",
	models.BucketKeyMessage:          "If listeners remember one thing from your episodes, what should it be?",
	models.BucketSpeakingExperience:  "Have you done podcasts, conference talks, or other speaking before?",
	models.BucketPromotionItems:      "Is there anything you'd like to promote — a book, a course, an offer?",
	models.BucketSchedulingPreference: "When do you generally prefer to record?",
	models.BucketIdealPodcast:        "What kind of show would be your dream booking?",
}

// styledQuestions are style-specific variants layered over the defaults.
// Only buckets where tone matters get variants.
var styledQuestions = map[templateKey]string{
	{models.BucketFullName, strategy.StyleFormal}:    "May I have your full name, as you would like it presented to podcast hosts?",
	{models.BucketFullName, strategy.StyleConcise}:   "Your full name?",
	{models.BucketEmail, strategy.StyleConcise}:      "Best email for hosts?",
	{models.BucketEmail, strategy.StyleFormal}:       "What would be the most appropriate email address for podcast hosts to contact you?",
	{models.BucketProfessionalBio, strategy.StyleUncertain}: "No need for anything polished — in your own words, what do you do and how did you get here?",
	{models.BucketProfessionalBio, strategy.StyleConcise}:   "Quick bio — two or three sentences about what you do?",
	{models.BucketExpertiseKeywords, strategy.StyleTechnical}: "Which domains are you deepest in? Name the areas where you'd happily go three levels down.",
	{models.BucketExpertiseKeywords, strategy.StyleUncertain}: "What are the things people usually come to you for help with? That's usually where expertise hides.",
	{models.BucketSuccessStories, strategy.StyleUncertain}:    "Think of a time something you did really worked — a project, a client, a result you're proud of. What happened?",
	{models.BucketSuccessStories, strategy.StyleTechnical}:    "What's a war story with real numbers — a system you fixed, a metric you moved?",
	{models.BucketUniquePerspective, strategy.StyleVerbose}:   "You clearly think deeply about this — what's a view you hold that most of your peers would push back on?",
	{models.BucketPodcastTopics, strategy.StyleConcise}:       "Top two podcast topics?",
	{models.BucketKeyMessage, strategy.StyleUncertain}:        "Don't overthink it — if a listener takes away just one idea from hearing you, what do you want it to be?",
}

// combinedQuestions cover multi-bucket asks. All ids in a key must share
// one question group; the generator checks this before using them.
type combinedKey struct {
	a, b models.BucketID
}

var combinedQuestions = map[combinedKey]string{
	{models.BucketEmail, models.BucketPhone}:           "What's the best email and phone number for hosts to reach you?",
	{models.BucketEmail, models.BucketLinkedInURL}:     "What's the best email for you, and could you drop your LinkedIn URL while you're at it?",
	{models.BucketPhone, models.BucketLinkedInURL}:     "Could I grab a phone number and your LinkedIn profile?",
	{models.BucketCurrentRole, models.BucketCompany}:   "What's your current role, and where?",
	{models.BucketPodcastTopics, models.BucketTargetAudience}: "What topics do you want to cover, and who are you hoping is listening?",
	{models.BucketSuccessStories, models.BucketAchievements}:  "What wins or recognitions should hosts know about — client results, awards, anything with teeth?",
}

// threeWayContact is the only three-bucket template.
var threeWayContact = "Let's knock out the contact basics: best email, phone, and your LinkedIn URL?"

// acknowledgments open a reply after a successful store.
var acknowledgments = []string{
	"Got it!",
	"Perfect, noted.",
	"Great, thanks!",
	"Noted.",
	"Excellent.",
}

// progressPhrases occasionally note momentum.
var progressPhrases = []string{
	"We're making good progress.",
	"Your profile is really coming together.",
	"We're getting close now.",
}

// continuations bridge into the next question.
var continuations = []string{
	"Now,",
	"Next up —",
	"Moving on:",
	"While we're at it —",
}

// clarifications are used for the ambiguous path.
var clarifications = []string{
	"I want to make sure I get this right — could you say that another way?",
	"Sorry, I didn't quite catch that. Could you rephrase?",
	"Just to be sure I file this correctly — what did you mean by that?",
}

// rescueOpeners soften the rescue path.
var rescueOpeners = []string{
	"Let's simplify — I only need a couple of essentials to keep things moving.",
	"No problem, let's keep this quick.",
	"Let me make this easier.",
}
