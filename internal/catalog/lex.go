package catalog

import (
	"context"
	"fmt"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/lexmodelsv2"
	"github.com/aws/aws-sdk-go-v2/service/lexmodelsv2/types"
	"go.uber.org/zap"

	"github.com/dmehra/lexassist/internal/dialog"
)

// customSlotTypeIDLen separates bot-author-defined slot types from
// built-in ones: custom type identifiers are at most this long.
const customSlotTypeIDLen = 10

// lexAPI is the subset of the Lex V2 model-building API the catalog uses.
type lexAPI interface {
	ListIntents(ctx context.Context, params *lexmodelsv2.ListIntentsInput, optFns ...func(*lexmodelsv2.Options)) (*lexmodelsv2.ListIntentsOutput, error)
	ListSlots(ctx context.Context, params *lexmodelsv2.ListSlotsInput, optFns ...func(*lexmodelsv2.Options)) (*lexmodelsv2.ListSlotsOutput, error)
	DescribeIntent(ctx context.Context, params *lexmodelsv2.DescribeIntentInput, optFns ...func(*lexmodelsv2.Options)) (*lexmodelsv2.DescribeIntentOutput, error)
	DescribeSlotType(ctx context.Context, params *lexmodelsv2.DescribeSlotTypeInput, optFns ...func(*lexmodelsv2.Options)) (*lexmodelsv2.DescribeSlotTypeOutput, error)
}

// LexCatalog reads the bot definition from the Lex V2 model APIs.
type LexCatalog struct {
	api      lexAPI
	botID    string
	version  string
	localeID string
	log      *zap.Logger
}

// NewLexCatalog creates a catalog over the given Lex model client for one
// bot build.
func NewLexCatalog(client *lexmodelsv2.Client, botID, version, localeID string, log *zap.Logger) *LexCatalog {
	return &LexCatalog{
		api:      client,
		botID:    botID,
		version:  version,
		localeID: localeID,
		log:      log,
	}
}

// Intents drains every page of the intent list and returns name ->
// description for the whole bot.
func (c *LexCatalog) Intents(ctx context.Context) (map[string]string, error) {
	intents := make(map[string]string)
	var nextToken *string
	for {
		out, err := c.api.ListIntents(ctx, &lexmodelsv2.ListIntentsInput{
			BotId:      aws.String(c.botID),
			BotVersion: aws.String(c.version),
			LocaleId:   aws.String(c.localeID),
			NextToken:  nextToken,
		})
		if err != nil {
			return nil, fmt.Errorf("listing intents: %w", err)
		}
		for _, s := range out.IntentSummaries {
			intents[aws.ToString(s.IntentName)] = aws.ToString(s.Description)
		}
		if out.NextToken == nil {
			break
		}
		nextToken = out.NextToken
	}

	c.log.Debug("fetched bot intents", zap.Int("count", len(intents)))
	return intents, nil
}

// intentID resolves an intent name to its identifier, draining pages
// until the intent is found or the list is exhausted.
func (c *LexCatalog) intentID(ctx context.Context, intentName string) (string, error) {
	var nextToken *string
	for {
		out, err := c.api.ListIntents(ctx, &lexmodelsv2.ListIntentsInput{
			BotId:      aws.String(c.botID),
			BotVersion: aws.String(c.version),
			LocaleId:   aws.String(c.localeID),
			NextToken:  nextToken,
		})
		if err != nil {
			return "", fmt.Errorf("listing intents: %w", err)
		}
		for _, s := range out.IntentSummaries {
			if aws.ToString(s.IntentName) == intentName {
				return aws.ToString(s.IntentId), nil
			}
		}
		if out.NextToken == nil {
			c.log.Warn("intent not found in bot definition", zap.String("intent", intentName))
			return "", fmt.Errorf("intent %q: %w", intentName, ErrNotFound)
		}
		nextToken = out.NextToken
	}
}

// slotSummaries drains every page of the intent's slot list.
func (c *LexCatalog) slotSummaries(ctx context.Context, intentID string) ([]types.SlotSummary, error) {
	var summaries []types.SlotSummary
	var nextToken *string
	for {
		out, err := c.api.ListSlots(ctx, &lexmodelsv2.ListSlotsInput{
			BotId:      aws.String(c.botID),
			BotVersion: aws.String(c.version),
			LocaleId:   aws.String(c.localeID),
			IntentId:   aws.String(intentID),
			NextToken:  nextToken,
		})
		if err != nil {
			return nil, fmt.Errorf("listing slots: %w", err)
		}
		summaries = append(summaries, out.SlotSummaries...)
		if out.NextToken == nil {
			break
		}
		nextToken = out.NextToken
	}
	return summaries, nil
}

// Slots returns an all-unset slot map for the intent.
func (c *LexCatalog) Slots(ctx context.Context, intentName string) (map[string]*dialog.Slot, error) {
	intentID, err := c.intentID(ctx, intentName)
	if err != nil {
		return nil, err
	}
	summaries, err := c.slotSummaries(ctx, intentID)
	if err != nil {
		return nil, err
	}

	slots := make(map[string]*dialog.Slot, len(summaries))
	for _, s := range summaries {
		slots[aws.ToString(s.SlotName)] = nil
	}
	c.log.Debug("fetched intent slots",
		zap.String("intent", intentName),
		zap.Int("count", len(slots)))
	return slots, nil
}

// SlotOrder joins the intent's slot list with its declared priorities and
// returns the slot names in ascending priority. Priority entries whose
// slot id does not resolve to a known slot are dropped.
func (c *LexCatalog) SlotOrder(ctx context.Context, intentName string) ([]string, error) {
	intentID, err := c.intentID(ctx, intentName)
	if err != nil {
		return nil, err
	}
	summaries, err := c.slotSummaries(ctx, intentID)
	if err != nil {
		return nil, err
	}
	idToName := make(map[string]string, len(summaries))
	for _, s := range summaries {
		idToName[aws.ToString(s.SlotId)] = aws.ToString(s.SlotName)
	}

	described, err := c.api.DescribeIntent(ctx, &lexmodelsv2.DescribeIntentInput{
		BotId:      aws.String(c.botID),
		BotVersion: aws.String(c.version),
		LocaleId:   aws.String(c.localeID),
		IntentId:   aws.String(intentID),
	})
	if err != nil {
		return nil, fmt.Errorf("describing intent %s: %w", intentName, err)
	}

	priorities := make([]types.SlotPriority, len(described.SlotPriorities))
	copy(priorities, described.SlotPriorities)
	sort.SliceStable(priorities, func(i, j int) bool {
		return aws.ToInt32(priorities[i].Priority) < aws.ToInt32(priorities[j].Priority)
	})

	order := make([]string, 0, len(priorities))
	for _, p := range priorities {
		name, ok := idToName[aws.ToString(p.SlotId)]
		if !ok {
			c.log.Warn("slot priority references unknown slot",
				zap.String("intent", intentName),
				zap.String("slotId", aws.ToString(p.SlotId)))
			continue
		}
		order = append(order, name)
	}

	c.log.Debug("resolved slot priority order",
		zap.String("intent", intentName),
		zap.Strings("order", order))
	return order, nil
}

// SlotValues returns the sample values of the slot's type. Built-in slot
// types have no enumerable domain; a failed type description degrades to
// the same "no assistance" answer instead of failing the turn.
func (c *LexCatalog) SlotValues(ctx context.Context, intentName, slotName string) ([]string, error) {
	intentID, err := c.intentID(ctx, intentName)
	if err != nil {
		return nil, err
	}
	summaries, err := c.slotSummaries(ctx, intentID)
	if err != nil {
		return nil, err
	}

	var slotTypeID string
	found := false
	for _, s := range summaries {
		if aws.ToString(s.SlotName) == slotName {
			slotTypeID = aws.ToString(s.SlotTypeId)
			found = true
			break
		}
	}
	if !found {
		c.log.Warn("slot not found in bot definition",
			zap.String("intent", intentName),
			zap.String("slot", slotName))
		return nil, fmt.Errorf("slot %q: %w", slotName, ErrNotFound)
	}

	if len(slotTypeID) > customSlotTypeIDLen {
		c.log.Info("built-in slot type, skipping slot assistance",
			zap.String("slot", slotName),
			zap.String("slotTypeId", slotTypeID))
		return nil, nil
	}

	described, err := c.api.DescribeSlotType(ctx, &lexmodelsv2.DescribeSlotTypeInput{
		BotId:      aws.String(c.botID),
		BotVersion: aws.String(c.version),
		LocaleId:   aws.String(c.localeID),
		SlotTypeId: aws.String(slotTypeID),
	})
	if err != nil {
		c.log.Warn("describing slot type failed, skipping slot assistance",
			zap.String("slot", slotName),
			zap.Error(err))
		return nil, nil
	}

	values := make([]string, 0, len(described.SlotTypeValues))
	for _, v := range described.SlotTypeValues {
		if v.SampleValue != nil {
			values = append(values, aws.ToString(v.SampleValue.Value))
		}
	}
	c.log.Debug("fetched slot type values",
		zap.String("slot", slotName),
		zap.Strings("values", values))
	return values, nil
}
