// Package frequency computes per-client contact sequencing and trailing
// contact-window counts over a materialized set of deployment records.
package frequency

import (
	"context"
	"sort"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/campaign-insights/internal/model"
)

// windowDays are the trailing contact windows, ascending.
var windowDays = [3]int{30, 60, 90}

// defaultWorkers bounds partition parallelism when the caller does not.
const defaultWorkers = 8

// Engine annotates deployment records with contact frequency metrics.
// Partitions are independent, so the engine shards work by client; the
// output is identical regardless of worker count.
type Engine struct {
	workers int
}

// New creates an Engine. workers <= 0 selects the default bound.
func New(workers int) *Engine {
	if workers <= 0 {
		workers = defaultWorkers
	}
	return &Engine{workers: workers}
}

// Annotate computes one FrequencyAnnotation per input record. Records are
// partitioned by client, each partition ordered by deployment date with
// ties broken by tactic ID. The returned slice is ordered by
// (client_id, contact_number).
func (e *Engine) Annotate(ctx context.Context, records []model.DeploymentRecord) ([]model.FrequencyAnnotation, error) {
	if len(records) == 0 {
		return nil, nil
	}

	partitions := partition(records)
	clients := make([]string, 0, len(partitions))
	for id := range partitions {
		clients = append(clients, id)
	}
	sort.Strings(clients)

	// Pre-compute each partition's segment of the output so workers never
	// share a write range.
	offsets := make(map[string]int, len(clients))
	var total int
	for _, id := range clients {
		offsets[id] = total
		total += len(partitions[id])
	}

	out := make([]model.FrequencyAnnotation, total)

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for _, id := range clients {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return eris.Wrap(err, "frequency: annotate aborted")
			}
			annotatePartition(partitions[id], out[offsets[id]:offsets[id]+len(partitions[id])])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	zap.L().Debug("frequency: annotation complete",
		zap.Int("records", total),
		zap.Int("clients", len(clients)),
	)
	return out, nil
}

// partition groups records by client ID.
func partition(records []model.DeploymentRecord) map[string][]model.DeploymentRecord {
	parts := make(map[string][]model.DeploymentRecord)
	for _, r := range records {
		parts[r.ClientID] = append(parts[r.ClientID], r)
	}
	return parts
}

// annotatePartition fills out with annotations for one client's records.
// The trailing-window counts use a sliding two-pointer scan over the sorted
// sequence: for record i the N-day window covers every record j with
// day(i) − day(j) <= N, including later records on the same calendar date,
// and the count excludes the record itself. This matches a trailing range
// window count minus one.
func annotatePartition(records []model.DeploymentRecord, out []model.FrequencyAnnotation) {
	sort.Slice(records, func(i, j int) bool {
		if !records[i].DeploymentDate.Equal(records[j].DeploymentDate) {
			return records[i].DeploymentDate.Before(records[j].DeploymentDate)
		}
		return records[i].TacticID < records[j].TacticID
	})

	days := make([]int64, len(records))
	for i, r := range records {
		days[i] = r.DeploymentDate.Unix() / 86400
	}

	var lo [3]int // window start pointer per trailing window
	peerEnd := 0  // last index sharing the current record's date

	for i, r := range records {
		if peerEnd < i {
			peerEnd = i
		}
		for peerEnd+1 < len(records) && days[peerEnd+1] == days[i] {
			peerEnd++
		}

		a := model.FrequencyAnnotation{
			TacticID:      r.TacticID,
			ClientID:      r.ClientID,
			ContactNumber: i + 1,
		}
		if i > 0 {
			gap := int(days[i] - days[i-1])
			a.DaysSinceLastContact = &gap
		}

		counts := [3]int{}
		for w, n := range windowDays {
			for days[i]-days[lo[w]] > int64(n) {
				lo[w]++
			}
			counts[w] = peerEnd - lo[w]
		}
		a.ContactsLast30d = counts[0]
		a.ContactsLast60d = counts[1]
		a.ContactsLast90d = counts[2]

		out[i] = a
	}
}

// ByTactic indexes annotations by tactic ID for joining with outcomes.
func ByTactic(annotations []model.FrequencyAnnotation) map[string]model.FrequencyAnnotation {
	idx := make(map[string]model.FrequencyAnnotation, len(annotations))
	for _, a := range annotations {
		idx[a.TacticID] = a
	}
	return idx
}
