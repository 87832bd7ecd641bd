package catalog

import (
	"embed"
	"fmt"
	"os"

	"medintake/internal/model"

	"gopkg.in/yaml.v3"
)

//go:embed data/questions.yaml data/decision_tree.yaml
var defaultData embed.FS

// questionFile is the on-disk shape of the question catalog. Base
// questions are asked in file order; conditional questions are inserted
// at runtime when their trigger answer is recorded; follow-up questions
// are only reachable through the decision tree.
type questionFile struct {
	Base        []model.Question `yaml:"base"`
	Conditional []model.Question `yaml:"conditional"`
	FollowUps   []model.Question `yaml:"followups"`
}

type treeFile struct {
	Symptoms []model.SymptomEntry `yaml:"symptoms"`
}

// Catalog is the loaded, validated question catalog plus the decision
// tree index. Read-only after Load; safe for concurrent reads.
type Catalog struct {
	base        []model.Question
	conditional []model.Question
	byID        map[string]model.Question
	tree        []model.SymptomEntry
	treeBySym   map[string]model.SymptomEntry
	primaryID   string
	genderID    string
}

// Load reads and validates the catalog and decision tree from YAML
// files. Any integrity violation fails the whole load with
// *model.SchemaError.
func Load(questionsPath, treePath string) (*Catalog, error) {
	qb, err := os.ReadFile(questionsPath)
	if err != nil {
		return nil, fmt.Errorf("read questions: %w", err)
	}
	tb, err := os.ReadFile(treePath)
	if err != nil {
		return nil, fmt.Errorf("read decision tree: %w", err)
	}
	return Parse(qb, tb)
}

// LoadDefault loads the catalog bundled with the binary.
func LoadDefault() (*Catalog, error) {
	qb, err := defaultData.ReadFile("data/questions.yaml")
	if err != nil {
		return nil, err
	}
	tb, err := defaultData.ReadFile("data/decision_tree.yaml")
	if err != nil {
		return nil, err
	}
	return Parse(qb, tb)
}

// Parse builds a Catalog from raw YAML.
func Parse(questions, tree []byte) (*Catalog, error) {
	var qf questionFile
	if err := yaml.Unmarshal(questions, &qf); err != nil {
		return nil, fmt.Errorf("parse questions: %w", err)
	}
	var tf treeFile
	if err := yaml.Unmarshal(tree, &tf); err != nil {
		return nil, fmt.Errorf("parse decision tree: %w", err)
	}

	c := &Catalog{
		base:        qf.Base,
		conditional: qf.Conditional,
		byID:        make(map[string]model.Question),
		tree:        tf.Symptoms,
		treeBySym:   make(map[string]model.SymptomEntry),
	}

	var violations []string
	addViolation := func(format string, args ...interface{}) {
		violations = append(violations, fmt.Sprintf(format, args...))
	}

	register := func(qs []model.Question, section string) {
		for _, q := range qs {
			if q.ID == "" {
				addViolation("%s: question with empty id", section)
				continue
			}
			if _, dup := c.byID[q.ID]; dup {
				addViolation("duplicate question id %q", q.ID)
				continue
			}
			c.byID[q.ID] = q
		}
	}
	register(qf.Base, "base")
	register(qf.Conditional, "conditional")
	register(qf.FollowUps, "followups")

	for _, q := range c.byID {
		switch q.Kind {
		case model.AnswerText, model.AnswerNumeric:
		case model.AnswerSingleChoice, model.AnswerMultiChoice:
			if len(q.Options) < 2 {
				addViolation("question %q: choice kind needs at least two options", q.ID)
			}
		default:
			addViolation("question %q: unknown answer kind %q", q.ID, q.Kind)
		}
		switch q.Role {
		case model.RoleNone:
		case model.RolePrimarySymptom:
			if c.primaryID != "" {
				addViolation("multiple questions carry role %q", model.RolePrimarySymptom)
			}
			c.primaryID = q.ID
		case model.RoleGender:
			if c.genderID != "" {
				addViolation("multiple questions carry role %q", model.RoleGender)
			}
			c.genderID = q.ID
		default:
			addViolation("question %q: unknown role %q", q.ID, q.Role)
		}
	}
	for _, q := range qf.Conditional {
		if q.Condition == nil {
			addViolation("conditional question %q: missing condition", q.ID)
			continue
		}
		trigger, ok := c.byID[q.Condition.QuestionID]
		if !ok {
			addViolation("conditional question %q: trigger %q does not exist", q.ID, q.Condition.QuestionID)
			continue
		}
		if trigger.Kind == model.AnswerSingleChoice && !containsFold(trigger.Options, q.Condition.Equals) {
			addViolation("conditional question %q: trigger value %q not among %q options", q.ID, q.Condition.Equals, trigger.ID)
		}
	}
	for _, entry := range tf.Symptoms {
		if entry.Symptom == "" {
			addViolation("decision tree entry with empty symptom name")
			continue
		}
		if _, dup := c.treeBySym[entry.Symptom]; dup {
			addViolation("duplicate decision tree symptom %q", entry.Symptom)
			continue
		}
		c.treeBySym[entry.Symptom] = entry
		if len(entry.Keywords) == 0 {
			addViolation("symptom %q: no keywords", entry.Symptom)
		}
		for _, fu := range entry.FollowUps {
			if _, ok := c.byID[fu]; !ok {
				addViolation("symptom %q: follow-up %q does not exist", entry.Symptom, fu)
			}
		}
	}
	if c.primaryID == "" {
		addViolation("no question carries role %q", model.RolePrimarySymptom)
	}
	if c.genderID == "" {
		addViolation("no question carries role %q", model.RoleGender)
	}

	if len(violations) > 0 {
		return nil, &model.SchemaError{Violations: violations}
	}
	return c, nil
}

// BaseQuestions returns the fixed base questionnaire in ask order.
func (c *Catalog) BaseQuestions() []model.Question {
	return c.base
}

// Question resolves a question id.
func (c *Catalog) Question(id string) (model.Question, bool) {
	q, ok := c.byID[id]
	return q, ok
}

// PrimarySymptomID is the question whose answer is scanned for
// symptom keywords.
func (c *Catalog) PrimarySymptomID() string { return c.primaryID }

// GenderID is the question whose answer can trigger conditional
// questions.
func (c *Catalog) GenderID() string { return c.genderID }

// FollowUpsFor returns the ordered follow-up questions for a detected
// symptom, or nil for an unknown symptom.
func (c *Catalog) FollowUpsFor(symptom string) []model.Question {
	entry, ok := c.treeBySym[symptom]
	if !ok {
		return nil
	}
	out := make([]model.Question, 0, len(entry.FollowUps))
	for _, id := range entry.FollowUps {
		out = append(out, c.byID[id])
	}
	return out
}

// ConditionalFor returns the conditional questions triggered by
// answering the given question with the given value, in catalog order.
func (c *Catalog) ConditionalFor(questionID, value string) []model.Question {
	var out []model.Question
	for _, q := range c.conditional {
		if q.Condition.QuestionID == questionID && foldEq(q.Condition.Equals, value) {
			out = append(out, q)
		}
	}
	return out
}

// ConditionalsSatisfiedBy returns the conditional questions whose
// trigger is already answered with the matching value, in catalog
// order.
func (c *Catalog) ConditionalsSatisfiedBy(answers map[string]string) []model.Question {
	var out []model.Question
	for _, q := range c.conditional {
		if v, ok := answers[q.Condition.QuestionID]; ok && foldEq(q.Condition.Equals, v) {
			out = append(out, q)
		}
	}
	return out
}

// Symptoms returns the decision tree entries in catalog order.
func (c *Catalog) Symptoms() []model.SymptomEntry {
	return c.tree
}
