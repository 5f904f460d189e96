package services

import (
	"context"
	"encoding/json"
	"fmt"
	"github.com/maxaizer/boss-harvester/internal/domain/models"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"os"
	"path/filepath"
)

const SummarySystemInstruction = "你是一位资深的技术招聘专家和职业规划顾问。"

const summaryPromptTemplate = `请分析以下 %d 个职位描述，提取共性技术栈。

职位描述：
%s

请按以下格式输出：

1. **核心技术栈**（按重要性排序）
   - 编程语言：
   - 框架/库：
   - 数据库：
   - 工具/平台：

2. **技能要求等级**
   - 必须掌握（出现频率>70%%）：
   - 优先掌握（出现频率30-70%%）：
   - 加分项（出现频率<30%%）：

3. **学习路线建议**
   - 第一阶段（基础）：
   - 第二阶段（进阶）：
   - 第三阶段（高级）：

4. **资源推荐**
   - 推荐学习资源（书籍、课程、文档）

请用中文回答，内容要具体、可操作。`

var ErrNoDescriptions = errors.New("snapshot has no descriptions")

type aiClient interface {
	GenerateResponse(ctx context.Context, request string) (string, error)
}

type recordSource interface {
	Load() ([]models.JobRecord, error)
}

// Summarizer asks the text model for a skills summary of the harvested
// descriptions and writes the answer to a file.
type Summarizer struct {
	aiClient        aiClient
	records         recordSource
	maxDescriptions int
}

func NewSummarizer(aiClient aiClient, records recordSource, maxDescriptions int) *Summarizer {
	return &Summarizer{aiClient: aiClient, records: records, maxDescriptions: maxDescriptions}
}

func (s *Summarizer) Summarize(ctx context.Context, outputPath string) error {
	records, err := s.records.Load()
	if err != nil {
		return err
	}

	descriptions := lo.FilterMap(records, func(r models.JobRecord, _ int) (string, bool) {
		return r.DescriptionText, r.DescriptionText != ""
	})
	if len(descriptions) == 0 {
		return ErrNoDescriptions
	}
	if len(descriptions) > s.maxDescriptions {
		descriptions = descriptions[:s.maxDescriptions]
	}

	response, err := s.aiClient.GenerateResponse(ctx, summaryRequest(descriptions))
	if err != nil {
		return errors.Wrap(err, "failed to generate summary")
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return err
	}
	return os.WriteFile(outputPath, []byte(response), 0644)
}

func summaryRequest(descriptions []string) string {
	payload, _ := json.MarshalIndent(descriptions, "", "  ")
	return fmt.Sprintf(summaryPromptTemplate, len(descriptions), payload)
}
