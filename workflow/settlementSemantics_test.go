package workflow

import (
	"sync"
	"testing"

	"github.com/shopspring/decimal"
)

// NOTE: These tests are intentionally DB-free. They validate the intended
// settlement semantics:
// - a profit record is settled at most once, no matter how many approvals race
// - an already-settled order in a batch refuses the whole batch, nothing partial
// - invoice totals reconcile exactly against the settled records they cover
//
// Full DB integration tests should be added in an environment that can run
// MySQL + Redis.

type fakeLedger struct {
	muByEmployee map[int]*sync.Mutex
	mu           sync.Mutex

	// order id -> pending employee profit; removed once settled
	pending map[int]decimal.Decimal
	settled map[int]decimal.Decimal

	invoiceTotals []decimal.Decimal
	expenseTotals []decimal.Decimal
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{
		muByEmployee: map[int]*sync.Mutex{},
		pending:      map[int]decimal.Decimal{},
		settled:      map[int]decimal.Decimal{},
	}
}

func (l *fakeLedger) addPending(orderId int, profit decimal.Decimal) {
	l.pending[orderId] = profit
}

// approve mirrors ApproveAndIssueInvoice: serialize per employee, re-check
// every record under the lock, and either flip the whole batch into one
// invoice plus its expense mirror or change nothing. Returns false on a
// refused batch.
func (l *fakeLedger) approve(employeeId int, orderIds []int) bool {
	l.mu.Lock()
	em := l.muByEmployee[employeeId]
	if em == nil {
		em = &sync.Mutex{}
		l.muByEmployee[employeeId] = em
	}
	l.mu.Unlock()

	em.Lock()
	defer em.Unlock()

	l.mu.Lock()
	defer l.mu.Unlock()

	total := decimal.Zero
	for _, id := range orderIds {
		profit, ok := l.pending[id]
		if !ok {
			return false
		}
		total = total.Add(profit)
	}

	for _, id := range orderIds {
		l.settled[id] = l.pending[id]
		delete(l.pending, id)
	}
	l.invoiceTotals = append(l.invoiceTotals, total)
	l.expenseTotals = append(l.expenseTotals, total)
	return true
}

func (l *fakeLedger) sumSettled() decimal.Decimal {
	total := decimal.Zero
	for _, v := range l.settled {
		total = total.Add(v)
	}
	return total
}

func sum(values []decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}

func TestSettlement_ConcurrentApprovals_AtMostOnce(t *testing.T) {
	l := newFakeLedger()
	l.addPending(1, decimal.NewFromInt(20000))
	l.addPending(2, decimal.NewFromInt(10000))

	var (
		wg        sync.WaitGroup
		successMu sync.Mutex
		successes int
	)
	for i := 0; i < 25; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if l.approve(1, []int{1, 2}) {
				successMu.Lock()
				successes++
				successMu.Unlock()
			}
		}()
	}
	wg.Wait()

	if successes != 1 {
		t.Fatalf("expected exactly 1 successful approval, got %d", successes)
	}
	if len(l.invoiceTotals) != 1 {
		t.Fatalf("expected exactly 1 invoice, got %d", len(l.invoiceTotals))
	}
	if !l.invoiceTotals[0].Equal(decimal.NewFromInt(30000)) {
		t.Fatalf("invoice total = %s, want 30000", l.invoiceTotals[0])
	}
}

func TestSettlement_OverlappingBatches_NoDoubleSettle(t *testing.T) {
	// Batches {1,2} and {2,3} share order 2: only one may win, and order 2
	// must end up settled exactly once.
	for run := 0; run < 100; run++ {
		l := newFakeLedger()
		l.addPending(1, decimal.NewFromInt(1000))
		l.addPending(2, decimal.NewFromInt(2000))
		l.addPending(3, decimal.NewFromInt(3000))

		var wg sync.WaitGroup
		results := make([]bool, 2)
		batches := [][]int{{1, 2}, {2, 3}}
		for i := range batches {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				results[i] = l.approve(1, batches[i])
			}(i)
		}
		wg.Wait()

		if results[0] == results[1] {
			t.Fatalf("run=%d expected exactly one batch to win, got %v", run, results)
		}
		if _, stillPending := l.pending[2]; stillPending {
			t.Fatalf("run=%d order 2 still pending after a winning batch", run)
		}
		if len(l.invoiceTotals) != 1 {
			t.Fatalf("run=%d expected 1 invoice, got %d", run, len(l.invoiceTotals))
		}
	}
}

func TestSettlement_RefusedBatch_LeavesNoPartialState(t *testing.T) {
	l := newFakeLedger()
	l.addPending(1, decimal.NewFromInt(5000))
	l.addPending(2, decimal.NewFromInt(7000))

	if !l.approve(1, []int{2}) {
		t.Fatal("settling order 2 alone should succeed")
	}

	// Order 2 is now settled; the {1,2} batch must refuse without touching
	// order 1.
	if l.approve(1, []int{1, 2}) {
		t.Fatal("batch containing a settled order must be refused")
	}
	if _, ok := l.pending[1]; !ok {
		t.Fatal("order 1 was flipped by a refused batch")
	}
	if len(l.invoiceTotals) != 1 {
		t.Fatalf("refused batch created an invoice: %d invoices", len(l.invoiceTotals))
	}
}

func TestSettlement_Reconciliation_InvoicesMatchSettledRecords(t *testing.T) {
	l := newFakeLedger()
	for i := 1; i <= 30; i++ {
		l.addPending(i, decimal.NewFromInt(int64(100*i)))
	}

	var wg sync.WaitGroup
	for i := 1; i <= 30; i += 3 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			l.approve(1, []int{i, i + 1, i + 2})
		}(i)
	}
	wg.Wait()

	if got, want := sum(l.invoiceTotals), l.sumSettled(); !got.Equal(want) {
		t.Fatalf("sum of invoice totals %s != sum of settled records %s", got, want)
	}
	if len(l.pending) != 0 {
		t.Fatalf("%d orders left pending after settling every batch", len(l.pending))
	}
}

func TestSettlement_ExpenseMirror_OnePerInvoice(t *testing.T) {
	l := newFakeLedger()
	l.addPending(1, decimal.NewFromInt(4000))
	l.addPending(2, decimal.NewFromInt(6000))

	l.approve(1, []int{1})
	l.approve(1, []int{2})

	if len(l.expenseTotals) != len(l.invoiceTotals) {
		t.Fatalf("expenses %d != invoices %d", len(l.expenseTotals), len(l.invoiceTotals))
	}
	for i := range l.invoiceTotals {
		if !l.expenseTotals[i].Equal(l.invoiceTotals[i]) {
			t.Fatalf("expense %d amount %s != invoice total %s", i, l.expenseTotals[i], l.invoiceTotals[i])
		}
	}
}
