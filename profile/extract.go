package profile

import (
	"context"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/krshsl/admitwise/backend/models"
)

// Extractor turns the opaque text of an uploaded document into a partial profile
type Extractor interface {
	Extract(ctx context.Context, documentType, text string) (*models.ParsedData, error)
}

var (
	emailPattern     = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)
	phonePattern     = regexp.MustCompile(`(?i)\b(?:phone|tel|mobile)\s*[:\-]?\s*(\+?\d[\d\s().\-]{7,}\d)`)
	linkedInPattern  = regexp.MustCompile(`(?i)(?:https?://)?(?:www\.)?linkedin\.com/in/[A-Za-z0-9_\-]+`)
	gpaPattern       = regexp.MustCompile(`(?i)\b(?:c?gpa|grade point average)\s*[:\-]?\s*([0-4](?:\.\d{1,2})?)\b`)
	testScorePattern = regexp.MustCompile(`(?i)\b(IELTS|TOEFL|GRE|GMAT|SAT|ACT|PTE|Duolingo)\b[^0-9\n]{0,20}(\d{1,3}(?:\.\d)?)`)
	degreePattern    = regexp.MustCompile(`(?i)\b(bachelor(?:'s)?|master(?:'s)?|ph\.?d\.?|doctorate|doctor of philosophy|b\.?sc|m\.?sc|b\.?tech|m\.?tech|mba)\b[^,;\n]*`)
	institutionWords = regexp.MustCompile(`(?i)\b(university|college|institute|school of)\b`)
	positionPattern  = regexp.MustCompile(`^\s*([A-Z][\w/&,.' \-]{2,60}?)\s+(?:at|@)\s+([A-Z][\w&.,' \-]{1,80}?)\s*(?:\(([^)]+)\))?\s*$`)
	languagePattern  = regexp.MustCompile(`(?i)\b(english|spanish|french|german|mandarin|chinese|hindi|arabic|japanese|korean|portuguese|italian|russian|dutch|swedish|turkish|bengali|urdu)\b\s*[(:\-–]?\s*(native|fluent|advanced|intermediate|basic|beginner|conversational|proficient|professional)\b`)
	sentenceSplit    = regexp.MustCompile(`[.!?\n]+`)
)

var technicalKeywords = map[string]string{
	"python":           "Python",
	"java":             "Java",
	"javascript":       "JavaScript",
	"typescript":       "TypeScript",
	"golang":           "Go",
	"c++":              "C++",
	"c#":               "C#",
	"sql":              "SQL",
	"matlab":           "MATLAB",
	"react":            "React",
	"node.js":          "Node.js",
	"docker":           "Docker",
	"kubernetes":       "Kubernetes",
	"aws":              "AWS",
	"git":              "Git",
	"linux":            "Linux",
	"tensorflow":       "TensorFlow",
	"pytorch":          "PyTorch",
	"machine learning": "Machine Learning",
	"data analysis":    "Data Analysis",
	"excel":            "Excel",
	"tableau":          "Tableau",
	"autocad":          "AutoCAD",
}

var softKeywords = map[string]string{
	"leadership":        "Leadership",
	"teamwork":          "Teamwork",
	"communication":     "Communication",
	"problem solving":   "Problem Solving",
	"problem-solving":   "Problem Solving",
	"time management":   "Time Management",
	"critical thinking": "Critical Thinking",
	"creativity":        "Creativity",
	"adaptability":      "Adaptability",
	"collaboration":     "Collaboration",
}

var studyFieldKeywords = []string{
	"computer science",
	"data science",
	"artificial intelligence",
	"software engineering",
	"cybersecurity",
	"business administration",
	"business",
	"finance",
	"economics",
	"mechanical engineering",
	"electrical engineering",
	"civil engineering",
	"engineering",
	"medicine",
	"public health",
	"psychology",
	"law",
	"architecture",
	"mathematics",
	"physics",
	"biology",
	"chemistry",
}

var (
	studyIntent  = []string{"interested in", "pursue", "pursuing", "passion for", "study", "master's in", "masters in", "degree in", "specialize in"}
	careerIntent = []string{"career goal", "aspire to", "want to become", "goal is to", "plan to work", "long-term goal"}
)

// RuleExtractor is a keyword and pattern based Extractor that needs no external service.
// Which sections it fills depends on the document type.
type RuleExtractor struct{}

func NewRuleExtractor() *RuleExtractor {
	return &RuleExtractor{}
}

func (e *RuleExtractor) Extract(ctx context.Context, documentType, text string) (*models.ParsedData, error) {
	data := &models.ParsedData{RawText: text}
	if strings.TrimSpace(text) == "" {
		return data, nil
	}

	all := documentType == models.DocumentOther
	is := func(types ...string) bool {
		if all {
			return true
		}
		for _, t := range types {
			if t == documentType {
				return true
			}
		}
		return false
	}

	if is(models.DocumentCV, models.DocumentTranscript) {
		if institutions := extractInstitutions(text); len(institutions) > 0 {
			data.Education = &models.EducationData{Institutions: institutions}
		}
		if perf := extractAcademicPerformance(text); perf != nil {
			data.AcademicPerformance = perf
		}
	}

	if is(models.DocumentCV) {
		if positions := extractPositions(text); len(positions) > 0 {
			data.Experience = &models.ExperienceData{Positions: positions}
		}
		if contact := extractContact(text); contact != nil {
			data.Contact = contact
		}
	}

	if is(models.DocumentCV, models.DocumentCertificate, models.DocumentRecommendation) {
		skills := &models.Skills{Soft: matchKeywords(text, softKeywords)}
		if documentType != models.DocumentRecommendation {
			skills.Technical = matchKeywords(text, technicalKeywords)
		}
		if is(models.DocumentCV) {
			skills.Languages = extractLanguages(text)
		}
		if len(skills.Technical)+len(skills.Soft)+len(skills.Languages) > 0 {
			data.Skills = skills
		}
	}

	if is(models.DocumentCV, models.DocumentStatement) {
		prefs := &models.PreferencesData{
			StudyFields: extractStudyFields(text),
			CareerGoals: extractCareerGoals(text),
		}
		if len(prefs.StudyFields)+len(prefs.CareerGoals) > 0 {
			data.Preferences = prefs
		}
	}

	return data, nil
}

func extractContact(text string) *models.ContactInfo {
	contact := models.ContactInfo{
		Email:    emailPattern.FindString(text),
		LinkedIn: linkedInPattern.FindString(text),
	}
	if m := phonePattern.FindStringSubmatch(text); m != nil {
		contact.Phone = strings.TrimSpace(m[1])
	}
	if contact == (models.ContactInfo{}) {
		return nil
	}
	return &contact
}

func extractAcademicPerformance(text string) *models.AcademicPerformanceData {
	var perf models.AcademicPerformanceData
	if m := gpaPattern.FindStringSubmatch(text); m != nil {
		if gpa, err := strconv.ParseFloat(m[1], 64); err == nil && gpa <= 4 {
			perf.GPA = &gpa
		}
	}
	for _, m := range testScorePattern.FindAllStringSubmatch(text, -1) {
		score, err := strconv.ParseFloat(m[2], 64)
		if err != nil {
			continue
		}
		perf.TestScores = append(perf.TestScores, models.TestScore{Name: strings.ToUpper(m[1]), Score: score})
	}
	if perf.GPA == nil && len(perf.TestScores) == 0 {
		return nil
	}
	return &perf
}

// extractInstitutions pairs each degree mention with an institution named on the same
// line or on a neighbouring line
func extractInstitutions(text string) []models.Institution {
	lines := strings.Split(text, "\n")
	var institutions []models.Institution
	for i, line := range lines {
		degree := degreePattern.FindString(line)
		if degree == "" {
			continue
		}
		name := institutionName(line)
		for _, j := range []int{i - 1, i + 1} {
			if name == "" && j >= 0 && j < len(lines) {
				name = institutionName(lines[j])
			}
		}
		if name == "" {
			continue
		}

		inst := models.Institution{
			Name:   name,
			Degree: trimAt(degree),
			Field:  degreeField(degree),
		}
		if m := gpaPattern.FindStringSubmatch(line); m != nil {
			if gpa, err := strconv.ParseFloat(m[1], 64); err == nil && gpa <= 4 {
				inst.GPA = &gpa
			}
		}
		institutions = append(institutions, inst)
	}
	return institutions
}

func trimAt(s string) string {
	if at := strings.Index(strings.ToLower(s), " at "); at >= 0 {
		s = s[:at]
	}
	return strings.TrimSpace(s)
}

func institutionName(line string) string {
	if !institutionWords.MatchString(line) {
		return ""
	}
	for _, part := range strings.FieldsFunc(line, func(r rune) bool { return r == ',' || r == '|' || r == '-' || r == '–' }) {
		if institutionWords.MatchString(part) {
			if at := strings.Index(strings.ToLower(part), " at "); at >= 0 {
				part = part[at+len(" at "):]
			}
			return strings.TrimSpace(part)
		}
	}
	return strings.TrimSpace(line)
}

func degreeField(degree string) string {
	lower := strings.ToLower(degree)
	for _, sep := range []string{" in ", " of "} {
		if idx := strings.LastIndex(lower, sep); idx >= 0 {
			field := trimAt(degree[idx+len(sep):])
			if cut := institutionWords.FindStringIndex(field); cut != nil {
				field = field[:cut[0]]
			}
			return strings.TrimSpace(field)
		}
	}
	return ""
}

func extractPositions(text string) []models.Experience {
	var positions []models.Experience
	for _, line := range strings.Split(text, "\n") {
		m := positionPattern.FindStringSubmatch(line)
		if m == nil || institutionWords.MatchString(m[1]) || institutionWords.MatchString(m[2]) {
			continue
		}
		positions = append(positions, models.Experience{
			Title:    strings.TrimSpace(m[1]),
			Company:  strings.TrimSpace(m[2]),
			Duration: strings.TrimSpace(m[3]),
		})
	}
	return positions
}

func extractLanguages(text string) []models.LanguageSkill {
	var languages []models.LanguageSkill
	for _, m := range languagePattern.FindAllStringSubmatch(text, -1) {
		languages = append(languages, models.LanguageSkill{
			Language:    titleCase(m[1]),
			Proficiency: titleCase(m[2]),
		})
	}
	return languages
}

func extractStudyFields(text string) []string {
	var fields []string
	for _, sentence := range sentenceSplit.Split(strings.ToLower(text), -1) {
		if !containsAny(sentence, studyIntent) {
			continue
		}
		for _, field := range studyFieldKeywords {
			if containsWord(sentence, field) {
				fields = union(fields, []string{titleCase(field)})
			}
		}
	}
	return fields
}

func extractCareerGoals(text string) []string {
	var goals []string
	for _, sentence := range sentenceSplit.Split(text, -1) {
		sentence = strings.TrimSpace(sentence)
		if sentence == "" || !containsAny(strings.ToLower(sentence), careerIntent) {
			continue
		}
		sentence = Truncate(sentence, 200)
		goals = union(goals, []string{sentence})
	}
	return goals
}

// matchKeywords returns the canonical names of keywords found as whole words, in first-seen order
func matchKeywords(text string, keywords map[string]string) []string {
	lower := strings.ToLower(text)
	type hit struct {
		pos  int
		name string
	}
	var hits []hit
	for keyword, canonical := range keywords {
		if pos := wordIndex(lower, keyword); pos >= 0 {
			hits = append(hits, hit{pos, canonical})
		}
	}
	// the name tie-break keeps output independent of map order
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].pos != hits[j].pos {
			return hits[i].pos < hits[j].pos
		}
		return hits[i].name < hits[j].name
	})
	var out []string
	for _, h := range hits {
		out = union(out, []string{h.name})
	}
	return out
}

// Truncate cuts s to at most n bytes without splitting a UTF-8 sequence
func Truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

// wordIndex finds word in text with non-alphanumeric characters on both sides
func wordIndex(text, word string) int {
	start := 0
	for {
		idx := strings.Index(text[start:], word)
		if idx < 0 {
			return -1
		}
		idx += start
		end := idx + len(word)
		if (idx == 0 || !isWordChar(text[idx-1])) && (end == len(text) || !isWordChar(text[end])) {
			return idx
		}
		start = idx + 1
	}
}

func containsWord(text, word string) bool {
	return wordIndex(text, word) >= 0
}

func isWordChar(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9' || b == '+' || b == '#'
}

func containsAny(text string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(text, n) {
			return true
		}
	}
	return false
}

func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
