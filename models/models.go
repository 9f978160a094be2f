// models/models.go
package models

// Question 选择题（trivia）
type Question struct {
	Text       string   `json:"text"`
	Options    []string `json:"options"`
	Correct    int      `json:"correct"` // Options 下标
	Category   string   `json:"category"`
	Difficulty int      `json:"difficulty"`
}

// Estimate 数值估算题（prediction）
type Estimate struct {
	Text   string  `json:"text"`
	Answer float64 `json:"answer"`
	Unit   string  `json:"unit,omitempty"`
}

// Spectrum 光谱卡的两极（wavelength）
type Spectrum struct {
	Left  string `json:"left"`
	Right string `json:"right"`
}

// Dilemma 二选一辩题（would-you-rather）
type Dilemma struct {
	OptionA string `json:"optionA"`
	OptionB string `json:"optionB"`
}

// WordPair 平民词和卧底词（infiltrator）
type WordPair struct {
	Common   string `json:"common"`
	Decoy    string `json:"decoy"`
	Category string `json:"category"`
}

// Cipher 待解密短语（cipher）
type Cipher struct {
	Plain string `json:"plain"`
	Hint  string `json:"hint,omitempty"`
}

// Puzzle 填词谜面（wheel-of-fortune）
type Puzzle struct {
	Category string `json:"category"`
	Answer   string `json:"answer"`
}

// BoardClue 指答板上的一格（quiz-board）
type BoardClue struct {
	Clue   string `json:"clue"`
	Answer string `json:"answer"`
	Value  int    `json:"value"`
}

// BoardCategory 指答板上的一列，格子按分值从低到高排
type BoardCategory struct {
	Name  string      `json:"name"`
	Clues []BoardClue `json:"clues"`
}

// SurveyAnswer 调查榜上的一个词条（family-feud）
type SurveyAnswer struct {
	Text    string   `json:"text"`
	Points  int      `json:"points"`
	Aliases []string `json:"aliases,omitempty"` // 同义答案，判同时一并接受
}

// Survey 一块调查榜
type Survey struct {
	Question string         `json:"question"`
	Answers  []SurveyAnswer `json:"answers"`
}

// ContentPack 聚合全部玩法内容，persistence.Source 按包装载
type ContentPack struct {
	Questions []Question      `json:"questions"`
	Estimates []Estimate      `json:"estimates"`
	Spectrums []Spectrum      `json:"spectrums"`
	Dilemmas  []Dilemma       `json:"dilemmas"`
	WordPairs []WordPair      `json:"wordPairs"`
	Ciphers   []Cipher        `json:"ciphers"`
	DrawWords []string        `json:"drawWords"`
	Puzzles   []Puzzle        `json:"puzzles"`
	Surveys   []Survey        `json:"surveys"`
	Boards    []BoardCategory `json:"boards"`
}

// Merge 把另一包的内容并入本包，用于数据库内容叠加在内置种子上
func (p *ContentPack) Merge(other *ContentPack) {
	if other == nil {
		return
	}
	p.Questions = append(p.Questions, other.Questions...)
	p.Estimates = append(p.Estimates, other.Estimates...)
	p.Spectrums = append(p.Spectrums, other.Spectrums...)
	p.Dilemmas = append(p.Dilemmas, other.Dilemmas...)
	p.WordPairs = append(p.WordPairs, other.WordPairs...)
	p.Ciphers = append(p.Ciphers, other.Ciphers...)
	p.DrawWords = append(p.DrawWords, other.DrawWords...)
	p.Puzzles = append(p.Puzzles, other.Puzzles...)
	p.Surveys = append(p.Surveys, other.Surveys...)
	p.Boards = append(p.Boards, other.Boards...)
}
