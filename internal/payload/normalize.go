package payload

import (
	"fmt"
	"strings"

	"coursehub_backend/internal/util"
)

func trimAll(items []string) []string {
	if items == nil {
		return nil
	}
	out := make([]string, len(items))
	for i, s := range items {
		out[i] = strings.TrimSpace(s)
	}
	return out
}

func (p *CaseStudy) normalize(int) {
	p.Background = strings.TrimSpace(p.Background)
	p.Analysis = strings.TrimSpace(p.Analysis)
	p.Decision = strings.TrimSpace(p.Decision)
	p.Outcome = strings.TrimSpace(p.Outcome)
	p.RegulatoryContext = strings.TrimSpace(p.RegulatoryContext)
	p.KeyDataPoints = trimAll(p.KeyDataPoints)
	p.LearningPoints = trimAll(p.LearningPoints)
	for i := range p.Timeline {
		p.Timeline[i].Period = strings.TrimSpace(p.Timeline[i].Period)
		p.Timeline[i].Description = strings.TrimSpace(p.Timeline[i].Description)
	}
	for i := range p.DecisionNodes {
		n := &p.DecisionNodes[i]
		n.ID = strings.TrimSpace(n.ID)
		n.Prompt = strings.TrimSpace(n.Prompt)
		for j := range n.Options {
			n.Options[j].Text = strings.TrimSpace(n.Options[j].Text)
			n.Options[j].Consequence = strings.TrimSpace(n.Options[j].Consequence)
		}
	}
}

func (p *CaseStudy) check(ve *util.ValidationError) {
	seen := make(map[string]int, len(p.DecisionNodes))
	for i, n := range p.DecisionNodes {
		if n.ID == "" {
			continue
		}
		if first, ok := seen[n.ID]; ok {
			ve.Add(fmt.Sprintf("decision_nodes[%d].id", i), fmt.Sprintf("duplicates decision_nodes[%d].id", first))
			continue
		}
		seen[n.ID] = i
	}
}

func (p *Example) normalize(int) {
	p.Scenario = strings.TrimSpace(p.Scenario)
	for i := range p.Personas {
		p.Personas[i].Name = strings.TrimSpace(p.Personas[i].Name)
		p.Personas[i].Role = strings.TrimSpace(p.Personas[i].Role)
		p.Personas[i].Description = strings.TrimSpace(p.Personas[i].Description)
	}
	for i := range p.QA {
		p.QA[i].Question = strings.TrimSpace(p.QA[i].Question)
		p.QA[i].Answer = strings.TrimSpace(p.QA[i].Answer)
	}
	if fc := p.FinancialContext; fc != nil {
		fc.Currency = strings.ToUpper(strings.TrimSpace(fc.Currency))
		fc.Timeframe = strings.TrimSpace(fc.Timeframe)
		fc.Notes = strings.TrimSpace(fc.Notes)
	}
}

func (p *Example) check(*util.ValidationError) {}

func (p *Quiz) normalize(int) {
	p.Kind = strings.TrimSpace(p.Kind)
	if p.Kind == "" {
		p.Kind = "knowledge_check"
	}
	if p.PassThreshold == nil {
		threshold := DefaultPassThreshold
		p.PassThreshold = &threshold
	}
	for i := range p.Items {
		it := &p.Items[i]
		it.Question = strings.TrimSpace(it.Question)
		it.Rationale = strings.TrimSpace(it.Rationale)
		it.Difficulty = strings.TrimSpace(it.Difficulty)
		if it.Difficulty == "" {
			it.Difficulty = "medium"
		}
		it.AnchorRefs = trimAll(it.AnchorRefs)
		for j := range it.Choices {
			it.Choices[j].Text = strings.TrimSpace(it.Choices[j].Text)
			it.Choices[j].Explanation = strings.TrimSpace(it.Choices[j].Explanation)
		}
	}
}

func (p *Quiz) check(ve *util.ValidationError) {
	for i, it := range p.Items {
		if len(it.Choices) == 0 {
			continue
		}
		hasCorrect := false
		for _, c := range it.Choices {
			if c.Correct {
				hasCorrect = true
				break
			}
		}
		if !hasCorrect {
			ve.Add(fmt.Sprintf("items[%d].choices", i), "must mark at least one choice as correct")
		}
	}
}

func (p *Reflection) normalize(defaultMinChars int) {
	p.Kind = strings.TrimSpace(p.Kind)
	if p.Kind == "" {
		p.Kind = "journal"
	}
	p.Prompt = strings.TrimSpace(p.Prompt)
	p.Guidance = strings.TrimSpace(p.Guidance)
	p.SampleResponses = trimAll(p.SampleResponses)
	if p.MinChars == 0 && defaultMinChars > 0 {
		p.MinChars = defaultMinChars
	}
}

func (p *Reflection) check(*util.ValidationError) {}

func (p *Interactive) normalize(int) {
	p.Content = strings.TrimSpace(p.Content)
	p.Code = strings.TrimSpace(p.Code)
	if md := p.Metadata; md != nil {
		md.ArtifactKind = strings.TrimSpace(md.ArtifactKind)
		// 保持原下标，问题路径要指向作者提交的位置
		for i, lib := range md.AllowedLibraries {
			md.AllowedLibraries[i] = strings.ToLower(strings.TrimSpace(lib))
		}
	}
}

func dedupe(items []string) []string {
	out := make([]string, 0, len(items))
	seen := make(map[string]bool, len(items))
	for _, s := range items {
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

func (p *Interactive) check(ve *util.ValidationError) {
	switch {
	case p.Content == "" && p.Code == "":
		ve.Add("content", "either content or code is required")
	case p.Content != "" && p.Code != "":
		ve.Add("code", "content and code are mutually exclusive")
	case p.Code != "" && p.Metadata == nil:
		ve.Add("metadata", "is required when code is set")
	}
	if p.Metadata == nil {
		return
	}
	for i, lib := range p.Metadata.AllowedLibraries {
		if lib != "" && !IsAllowedLibrary(lib) {
			ve.Add(fmt.Sprintf("metadata.allowed_libraries[%d]", i), fmt.Sprintf("library %q is not allowed", lib))
		}
	}
	p.Metadata.AllowedLibraries = dedupe(p.Metadata.AllowedLibraries)
}

func (p *Callout) normalize(int) {
	p.Style = strings.TrimSpace(p.Style)
	if p.Style == "" {
		p.Style = "info"
	}
	p.Title = strings.TrimSpace(p.Title)
	p.Body = strings.TrimSpace(p.Body)
}

func (p *Callout) check(*util.ValidationError) {}
