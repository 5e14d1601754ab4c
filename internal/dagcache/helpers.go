package dagcache

import (
	"github.com/konflab/konf/internal/authorizer"
	"github.com/konflab/konf/internal/dag"
)

func buildAuthorizer(d *dag.DAG) *authorizer.Authorizer {
	return authorizer.Build(d.AuthDocuments())
}
