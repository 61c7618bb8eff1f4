package cli

import (
	"fmt"
	"io"

	"task-manager/internal/api"
	"task-manager/internal/domain"
)

const (
	loadingLabel = "加载中..."
	checkedBox   = "[x]"
	uncheckedBox = "[ ]"
)

// printTask prints one task line in the format:
// [x] 12  支付: coffee  ¥9.90
func printTask(w io.Writer, task domain.Task) {
	box := uncheckedBox
	if task.Completed {
		box = checkedBox
	}
	if task.IsBill() {
		fmt.Fprintf(w, "%s %d  %s  ¥%s\n", box, task.ID, task.Text, task.Bill.Amount.StringFixed(2))
		return
	}
	fmt.Fprintf(w, "%s %d  %s\n", box, task.ID, task.Text)
}

// printBillPreview prints a bill task that has not been stored, so it has no ID:
// 支付: coffee  ¥9.90  4200000001
func printBillPreview(w io.Writer, task domain.Task) {
	if !task.IsBill() {
		fmt.Fprintln(w, task.Text)
		return
	}
	fmt.Fprintf(w, "%s  ¥%s  %s\n", task.Text, task.Bill.Amount.StringFixed(2), task.Bill.TransactionID)
}

func printSummary(w io.Writer, summary domain.Summary) {
	fmt.Fprintf(w, "总任务数: %d | 已完成: %d\n", summary.Total, summary.Completed)
}

// printViewState prints the same information the web view shows
func printViewState(w io.Writer, state *api.ViewState) {
	if state.Loading {
		fmt.Fprintln(w, loadingLabel)
	}
	if state.Error != "" {
		fmt.Fprintf(w, "错误: %s\n", state.Error)
	}
	if len(state.Tasks) == 0 {
		fmt.Fprintln(w, "No tasks")
	}
	for _, task := range state.Tasks {
		printTask(w, task)
	}
	printSummary(w, state.Summary)
}
