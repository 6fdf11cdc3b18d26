package table

import (
	"github.com/kailas-cloud/riskboard/internal/domain/record"
)

func newsRow(id int, title, at, risk, src string) record.News {
	return record.NewsFromRecord(id, record.Record{
		record.ColTitle:       title,
		record.ColTime:        at,
		record.ColRiskLevel:   risk,
		record.ColSourceLevel: src,
		record.ColSource:      "src-" + title,
	})
}

func sampleNews() []record.News {
	return []record.News{
		newsRow(0, "Delta", "2024-03-04", "High", "B"),
		newsRow(1, "alpha", "2024-03-01", "None", "A"),
		newsRow(2, "Charlie", "not a date", "Medium", "D"),
		newsRow(3, "bravo", "2024-03-02", "Low", "C"),
		newsRow(4, "Echo", "2024-03-03", "High", "A"),
	}
}

func titles(rows []record.News) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Title
	}
	return out
}

func ids(rows []record.News) []int {
	out := make([]int, len(rows))
	for i, r := range rows {
		out[i] = r.ID
	}
	return out
}
