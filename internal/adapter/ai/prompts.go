// Package ai builds model prompts and normalizes model output.
//
// Prompt builders are pure functions: identical inputs produce byte-identical
// prompt text, which keeps generation reproducible in tests. They perform no
// I/O and no validation beyond the fallback placeholders; callers enforce
// their own required-field rules before invoking the generator.
package ai

import (
	"encoding/json"
	"fmt"
	"unicode/utf8"
)

// maxExtractionChars caps how much pasted posting text is embedded into the
// extraction prompt. Anything beyond is dropped before the model sees it.
const maxExtractionChars = 20000

// CoverLetterPrompt renders the cover-letter instruction for one application.
// Empty company or title fall back to neutral placeholders.
func CoverLetterPrompt(resumeText, jobDescription, companyName, jobTitle string) string {
	if companyName == "" {
		companyName = "the company"
	}
	if jobTitle == "" {
		jobTitle = "the position"
	}
	return fmt.Sprintf(`You are a professional career coach and expert cover letter writer.

JOB DETAILS:
Company: %s
Position: %s

JOB DESCRIPTION:
%s

CANDIDATE'S RESUME:
%s

TASK:
Write a compelling, professional cover letter (250-300 words) that:
1. Shows genuine enthusiasm for the role
2. Highlights 2-3 most relevant experiences from the resume that match the job requirements
3. Demonstrates understanding of the company/role
4. Explains why the candidate is a great fit
5. Ends with a strong call to action

FORMAT:
- Professional business letter format
- No address/date headers (start with "Dear Hiring Manager,")
- 3-4 paragraphs
- Warm but professional tone
- No generic phrases like "I am writing to apply"

Write only the cover letter content, no preamble or explanation.`, companyName, jobTitle, jobDescription, resumeText)
}

// ReferralEmailPrompt renders the referral-request email instruction.
func ReferralEmailPrompt(resumeText, jobDescription, companyName, jobTitle string) string {
	if companyName == "" {
		companyName = "the company"
	}
	if jobTitle == "" {
		jobTitle = "the position"
	}
	return fmt.Sprintf(`You are a professional career coach helping someone request a referral.

JOB DETAILS:
Company: %s
Position: %s

JOB DESCRIPTION:
%s

CANDIDATE'S RESUME:
%s

TASK:
Write a professional, friendly email (150-200 words) requesting a referral that:
1. Has a clear, specific subject line
2. Briefly introduces yourself (1 sentence from resume highlights)
3. Mentions the specific role you're interested in
4. Explains why you're excited about the company (based on JD)
5. Highlights 1-2 relevant skills/experiences
6. Politely asks if they'd be willing to refer you
7. Offers to provide more information if needed
8. Thanks them for their time

FORMAT:
Subject: [Your subject line]

Hi [Employee Name],

[Email body]

Best regards,
[Your Name]

TONE: Professional but warm and personable, not too formal or robotic.

Write only the email with subject line, no preamble or explanation.`, companyName, jobTitle, jobDescription, resumeText)
}

// ExtractionPrompt renders the job-posting parser instruction. The pasted text
// is truncated to maxExtractionChars before embedding, backing off to a rune
// boundary so no invalid UTF-8 sequence ends up in the prompt.
func ExtractionPrompt(text string) string {
	if len(text) > maxExtractionChars {
		cut := maxExtractionChars
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		text = text[:cut]
	}
	return fmt.Sprintf(`You are a job posting parser. Extract the following details from this job posting text.
The text may be copied from any job board (LinkedIn, Indeed, Unstop, Naukri, company websites, etc.).

Return ONLY a valid JSON object with these exact keys (no markdown, no explanation, no preamble):

{
  "company_name": "company name",
  "job_title": "job title/position",
  "location": "location (city, state/country) or 'Remote'",
  "salary_min": salary minimum as number only (e.g., 100000) or null,
  "salary_max": salary maximum as number only (e.g., 150000) or null,
  "job_description": "brief 2-3 sentence summary of the role",
  "requirements": "key requirements or qualifications",
  "benefits": "benefits or perks mentioned, if any",
  "application_url": "application URL if mentioned, otherwise null"
}

Important rules:
- If a field is not found, use null (not empty string)
- For salary, extract ONLY numbers without any symbols or currency (e.g., 100000 not "$100k")
- If salary is in lakhs (e.g., "5-8 LPA"), convert to actual numbers (e.g., 500000-800000)
- Be precise and extract only what's explicitly stated
- Keep descriptions concise
- Look for application links in the text

Job Posting Text:
%s`, text)
}

// ChatStats are the server-computed facts embedded into the chat prompt. The
// model is told to treat them as ground truth and never recompute them.
type ChatStats struct {
	TotalApplications  int                 `json:"totalApplications"`
	UpcomingInterviews int                 `json:"upcomingInterviews"`
	NextFive           []UpcomingInterview `json:"nextFive"`
}

// UpcomingInterview is one entry of the next-five list.
type UpcomingInterview struct {
	CompanyName string `json:"company_name"`
	JobTitle    string `json:"job_title"`
	InterviewAt string `json:"interview_at"`
}

// ChatSystemPrompt renders the assistant persona with precomputed stats and the
// raw application list serialized verbatim. applicationsJSON is produced by the
// caller (2-space indented) so the prompt stays a pure function of its inputs.
func ChatSystemPrompt(stats ChatStats, applicationsJSON string) string {
	if stats.NextFive == nil {
		stats.NextFive = []UpcomingInterview{}
	}
	nextFive, _ := json.Marshal(stats.NextFive)
	return fmt.Sprintf(`You are a smart job-application-assistant bot.
You help users understand their job search progress.

You have access to the user's applications, interview dates, statuses, notes, and job titles.

Server-computed facts:
- Total Applications: %d
- Upcoming Interviews: %d
- Next Interviews (first five): %s

Use ONLY these numbers for statistics.
DO NOT recalculate or guess counts.
Always be short, clear, and friendly.

User Applications:
%s`, stats.TotalApplications, stats.UpcomingInterviews, string(nextFive), applicationsJSON)
}
