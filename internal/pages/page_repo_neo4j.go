package pages

import (
	"context"
	"time"

	"browser-crawler/internal/domain/data"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"
)

const saveTimeout = 5 * time.Second

type Neo4jPageRepo struct {
	driver    neo4j.DriverWithContext
	logger    *zap.SugaredLogger
	saverChan chan *data.PageData
}

func NewNeo4jPageRepo(logger *zap.SugaredLogger, driver neo4j.DriverWithContext) *Neo4jPageRepo {
	return &Neo4jPageRepo{
		driver:    driver,
		logger:    logger,
		saverChan: make(chan *data.PageData, 100),
	}
}

func (repo *Neo4jPageRepo) EnsureConnectivity() error {
	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()

	return repo.driver.VerifyConnectivity(ctx)
}

func (repo *Neo4jPageRepo) GetSaverChan() chan<- *data.PageData {
	return repo.saverChan
}

func (repo *Neo4jPageRepo) StartSaverWorkers(workers int) {
	for range workers {
		go func() {
			for page := range repo.saverChan {
				if err := repo.SavePage(page); err != nil {
					repo.logger.Warnw("Failed to save page", "url", page.URL, "err", err)
				}
			}
		}()
	}
}

func (repo *Neo4jPageRepo) SavePage(page *data.PageData) error {
	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()

	params, errParams := page.ToParams()
	if errParams != nil {
		repo.logger.Errorf("failed to build page params: %v", errParams)
		return errParams
	}

	queryRes, errQuery := neo4j.ExecuteQuery(ctx, repo.driver, `
		MERGE (p:Page {url: $url})
		ON CREATE SET p.foundAt = $foundAt, p.lastUpdatedAt = $lastUpdatedAt, p.status = $status, p.links = $links, p.lastRunID = $lastRunID, p.contentType = $contentType, p.rendered = $rendered
		ON MATCH SET p.lastUpdatedAt = $lastUpdatedAt, p.status = $status, p.links = $links, p.lastRunID = $lastRunID, p.contentType = $contentType, p.rendered = $rendered
		WITH p
		UNWIND $links AS linkUrl
		MERGE (l:Page {url: linkUrl})
		ON CREATE SET l.foundAt = $foundAt
		MERGE (p)-[:LINKS_TO]->(l)
	`,
		params,
		neo4j.EagerResultTransformer,
		neo4j.ExecuteQueryWithDatabase("pages"),
	)

	if errQuery != nil {
		repo.logger.Errorf("failed to execute query: %v", errQuery)
		return errQuery
	}

	repo.logger.Debugw("page saved", "url", page.URL, "availableAfter", queryRes.Summary.ResultAvailableAfter())

	return nil
}
