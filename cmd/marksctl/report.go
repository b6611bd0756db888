package main

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/KedarDamale/MarksMania/internal/dto"
)

var heading = color.New(color.FgYellow, color.Bold)

// printSummary 打印看板统计
func (cli *commandLine) printSummary() error {
	sum, err := cli.stats.Summary(context.Background())
	if err != nil {
		return err
	}

	heading.Fprintf(cli.out, "\n学生 %d 人 / 科目 %d 门 / 成绩记录 %d 条（%s）\n",
		sum.TotalStudents, sum.TotalSubjects, sum.TotalMarks, sum.GeneratedAt)

	heading.Fprintln(cli.out, "\n各专业成绩")
	table := tablewriter.NewWriter(cli.out)
	table.SetHeader([]string{"Branch", "Students", "Average", "Highest", "Lowest"})
	for _, branch := range sortedKeys(sum.BranchDistribution) {
		avg, highest, lowest := dto.NotAvailable, dto.NotAvailable, dto.NotAvailable
		// 有学生但尚无成绩的专业不显示 0 分
		if perf, ok := sum.BranchPerformance[branch]; ok && perf.Count > 0 {
			avg = formatScore(sum.BranchAverage[branch])
			highest = formatScore(perf.Highest)
			lowest = formatScore(perf.Lowest)
		}
		table.Append([]string{
			branch,
			strconv.Itoa(sum.BranchDistribution[branch]),
			avg,
			highest,
			lowest,
		})
	}
	table.Render()

	heading.Fprintln(cli.out, "\n各科目平均分")
	table = tablewriter.NewWriter(cli.out)
	table.SetHeader([]string{"Subject", "Average"})
	for _, code := range sortedKeys(sum.SubjectAverageByCode) {
		table.Append([]string{code, formatScore(sum.SubjectAverageByCode[code])})
	}
	table.Render()

	heading.Fprintln(cli.out, "\n批次分布")
	table = tablewriter.NewWriter(cli.out)
	table.SetHeader([]string{"Batch", "Students"})
	for _, batch := range sortedKeys(sum.BatchDistribution) {
		table.Append([]string{batch, strconv.Itoa(sum.BatchDistribution[batch])})
	}
	table.Render()
	return nil
}

// printResults 打印成绩表，缺失成绩标红
func (cli *commandLine) printResults(req *dto.ResultsRequest) error {
	res, err := cli.stats.Results(context.Background(), req)
	if err != nil {
		return err
	}

	heading.Fprintf(cli.out, "\n%s 第 %d 学期 %s（满分 %d）\n", res.Branch, res.Semester, res.ExamType, res.MaxScore)
	if len(res.Rows) == 0 {
		fmt.Fprintln(cli.out, "无学生")
		return nil
	}

	header := []string{"Roll No", "Reg No", "Name", "Batch"}
	for _, col := range res.Columns {
		header = append(header, col.Code)
	}

	table := tablewriter.NewWriter(cli.out)
	table.SetHeader(header)
	for _, row := range res.Rows {
		line := []string{strconv.Itoa(row.RollNo), row.RegNo, row.Name, row.Batch}
		for _, sc := range row.Scores {
			if sc == dto.NotAvailable {
				sc = color.RedString(sc)
			}
			line = append(line, sc)
		}
		table.Append(line)
	}
	table.Render()
	return nil
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
