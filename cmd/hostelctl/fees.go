package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"hostel-admin/internal/apiclient"
	"hostel-admin/internal/model"
	"hostel-admin/internal/pages"
)

func (a *app) feesList(ctx context.Context, args []string) error {
	fs := a.flags("fees list")
	var ff pages.FeeFilter
	fs.StringVar(&ff.Roll, "roll", "", "roll number contains")
	fs.StringVar(&ff.Name, "name", "", "student name contains")
	status := fs.String("status", "", "PAID or UNPAID")
	if err := fs.Parse(args); err != nil {
		return err
	}
	ff.Status = model.FeeStatus(strings.ToUpper(*status))
	if ff.Status != "" && ff.Status != model.FeePaid && ff.Status != model.FeeUnpaid {
		return fmt.Errorf("fees list: unknown status %q", *status)
	}
	c, err := a.admin()
	if err != nil {
		return err
	}
	page := pages.NewFeesPage(c)
	if err := page.Load(ctx); err != nil {
		return err
	}

	tw := a.table()
	fmt.Fprintln(tw, "ID\tROLL\tSTUDENT\tMONTH\tAMOUNT\tDUE\tSTATUS\tRECEIPT")
	for _, f := range page.Filtered(ff) {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%.2f\t%s\t%s\t%s\n",
			f.ID, f.Student.RollNumber, f.Student.User.Name, f.Month, f.Amount,
			f.DueDate.Format("2006-01-02"), f.Status, dash(f.ReceiptNumber))
	}
	return tw.Flush()
}

func (a *app) feesAdd(ctx context.Context, args []string) error {
	fs := a.flags("fees add")
	studentID := fs.Int64("student", 0, "student id")
	month := fs.String("month", "", "billing month, YYYY-MM")
	amount := fs.Float64("amount", 0, "amount due")
	due := fs.String("due", "", "due date, YYYY-MM-DD")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *studentID <= 0 || *month == "" || *amount <= 0 || *due == "" {
		return errors.New("fees add: -student, -month, -amount and -due are required")
	}
	if _, err := time.Parse("2006-01", *month); err != nil {
		return fmt.Errorf("fees add: month must be YYYY-MM: %w", err)
	}
	dueDate, err := time.Parse("2006-01-02", *due)
	if err != nil {
		return fmt.Errorf("fees add: due must be YYYY-MM-DD: %w", err)
	}
	c, err := a.admin()
	if err != nil {
		return err
	}

	fee, err := pages.NewFeesPage(c).Create(ctx, apiclient.FeeInput{
		StudentID: *studentID,
		Month:     *month,
		Amount:    *amount,
		DueDate:   dueDate,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Raised fee #%d of %.2f for %s\n", fee.ID, fee.Amount, fee.Month)
	return nil
}

func (a *app) feesPay(ctx context.Context, args []string) error {
	raw, err := oneArg(a.flags("fees pay"), args, "fee id")
	if err != nil {
		return err
	}
	id, err := parseID(raw)
	if err != nil {
		return err
	}
	c, err := a.admin()
	if err != nil {
		return err
	}
	page := pages.NewFeesPage(c)
	fee, err := page.MarkPaid(ctx, id)
	if err != nil {
		return err
	}
	a.notice(page)
	fmt.Fprintf(a.out, "Receipt %s\n", fee.ReceiptNumber)
	return nil
}

func (a *app) feesReceipt(ctx context.Context, args []string) (err error) {
	fs := a.flags("fees receipt")
	output := fs.String("o", "", "write to file instead of stdout")
	raw, err := oneArg(fs, args, "fee id")
	if err != nil {
		return err
	}
	id, err := parseID(raw)
	if err != nil {
		return err
	}
	c, err := a.admin()
	if err != nil {
		return err
	}

	w := a.out
	if *output != "" {
		f, cerr := os.Create(*output)
		if cerr != nil {
			return cerr
		}
		defer func() {
			if cerr := f.Close(); err == nil {
				err = cerr
			}
		}()
		w = f
	}
	if err := pages.NewFeesPage(c).DownloadReceipt(ctx, id, w); err != nil {
		return err
	}
	if *output != "" {
		fmt.Fprintf(a.out, "Saved receipt to %s\n", *output)
	}
	return nil
}

func (a *app) feesRemove(ctx context.Context, args []string) error {
	fs := a.flags("fees rm")
	yes := fs.Bool("yes", false, "skip confirmation")
	raw, err := oneArg(fs, args, "fee id")
	if err != nil {
		return err
	}
	id, err := parseID(raw)
	if err != nil {
		return err
	}
	c, err := a.admin()
	if err != nil {
		return err
	}
	page := pages.NewFeesPage(c)
	if err := page.Delete(ctx, id, a.confirmUnless(*yes, fmt.Sprintf("Delete fee %d?", id))); err != nil {
		return err
	}
	a.notice(page)
	return nil
}
