package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"tutorhub_backend/internal/config"
	"tutorhub_backend/internal/model"
	"tutorhub_backend/internal/repository"
	"tutorhub_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// RosterService 从授权记录推导课次点名名单。
// 名单不落库，每次从有效授权实时推导；热点课次结果写入 Redis 短时缓存，
// 授权增删改后立即失效。
type RosterService struct {
	AccessRepo *repository.AccessRepository
	ChildRepo  *repository.ChildRepository
	LessonRepo *repository.LessonRepository
	RDB        *redis.Client
	cacheTTL   time.Duration
}

func NewRosterService(accessRepo *repository.AccessRepository, childRepo *repository.ChildRepository,
	lessonRepo *repository.LessonRepository, rdb *redis.Client, cfg *config.Config) *RosterService {
	return &RosterService{
		AccessRepo: accessRepo,
		ChildRepo:  childRepo,
		LessonRepo: lessonRepo,
		RDB:        rdb,
		cacheTTL:   time.Duration(cfg.Roster.CacheTTLSeconds) * time.Second,
	}
}

// RosterEntry 名单中的一名学员；同一学员持多条授权时只出现一次
type RosterEntry struct {
	ChildID    uint   `json:"childId"`
	ChildName  string `json:"childName"`
	YearGroup  string `json:"yearGroup"`
	GuardianID uint   `json:"guardianId"`
	GrantIDs   []uint `json:"grantIds"`
}

func rosterCacheKey(lessonID uint) string {
	return fmt.Sprintf("roster:lesson:%d", lessonID)
}

// LessonRoster 返回某课次的点名名单。
// 名单 = 所有 access=true 且已支付、且授权覆盖该课次的学员，按学员去重。
func (s *RosterService) LessonRoster(ctx context.Context, lessonID uint) ([]RosterEntry, error) {
	if s.RDB != nil {
		cached, err := s.RDB.Get(ctx, rosterCacheKey(lessonID)).Result()
		if err == nil {
			var entries []RosterEntry
			if json.Unmarshal([]byte(cached), &entries) == nil {
				return entries, nil
			}
		} else if err != redis.Nil {
			logger.Log.Warn("读取名单缓存失败", zap.Uint("lessonID", lessonID), zap.Error(err))
		}
	}

	entries, err := s.deriveRoster(lessonID)
	if err != nil {
		return nil, err
	}

	if s.RDB != nil {
		if data, err := json.Marshal(entries); err == nil {
			if err := s.RDB.Set(ctx, rosterCacheKey(lessonID), data, s.cacheTTL).Err(); err != nil {
				logger.Log.Warn("写入名单缓存失败", zap.Uint("lessonID", lessonID), zap.Error(err))
			}
		}
	}
	return entries, nil
}

func (s *RosterService) deriveRoster(lessonID uint) ([]RosterEntry, error) {
	grants, err := s.AccessRepo.FindValidGrants()
	if err != nil {
		return nil, err
	}

	// child_id -> 命中的授权ID集合
	matched := make(map[uint][]uint)
	for i := range grants {
		if grants[i].CoversLesson(lessonID) {
			matched[grants[i].ChildID] = append(matched[grants[i].ChildID], grants[i].ID)
		}
	}

	entries := make([]RosterEntry, 0, len(matched))
	for childID, grantIDs := range matched {
		child, err := s.ChildRepo.FindByID(childID)
		if err != nil {
			// 授权指向已删除的学员时跳过，不让整个名单失败
			logger.Log.Warn("授权指向不存在的学员", zap.Uint("childID", childID), zap.Error(err))
			continue
		}
		entries = append(entries, RosterEntry{
			ChildID:    child.ID,
			ChildName:  child.ChildName,
			YearGroup:  child.YearGroup,
			GuardianID: child.GuardianID,
			GrantIDs:   grantIDs,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].ChildName != entries[j].ChildName {
			return entries[i].ChildName < entries[j].ChildName
		}
		return entries[i].ChildID < entries[j].ChildID
	})
	return entries, nil
}

// InvalidateLesson 授权变更后清除名单缓存
func (s *RosterService) InvalidateLesson(ctx context.Context, lessonID uint) {
	if s.RDB == nil {
		return
	}
	if err := s.RDB.Del(ctx, rosterCacheKey(lessonID)).Err(); err != nil {
		logger.Log.Warn("清除名单缓存失败", zap.Uint("lessonID", lessonID), zap.Error(err))
	}
}

// InvalidateGrant 按授权覆盖的全部课次清缓存
func (s *RosterService) InvalidateGrant(ctx context.Context, grant *model.AccessGrant) {
	if s.RDB == nil || grant == nil {
		return
	}
	seen := make(map[uint]bool)
	add := func(id uint) {
		if id != 0 && !seen[id] {
			seen[id] = true
			s.InvalidateLesson(ctx, id)
		}
	}
	if grant.LessonID != nil {
		add(*grant.LessonID)
	}
	for _, id := range grant.LessonIDs {
		add(id)
	}
	for _, id := range grant.Metadata.LiveLessonSessionIDs {
		add(id)
	}
}

// HasLessonAccess 学员是否持有覆盖该课次的有效授权
func (s *RosterService) HasLessonAccess(childID, lessonID uint) (bool, error) {
	grants, err := s.AccessRepo.FindValidGrantsByChild(childID)
	if err != nil {
		return false, err
	}
	for i := range grants {
		if grants[i].CoversLesson(lessonID) {
			return true, nil
		}
	}
	return false, nil
}

// HasContentLessonAccess 学员是否可学习该自学课件
func (s *RosterService) HasContentLessonAccess(childID, contentLessonID uint) (bool, error) {
	grants, err := s.AccessRepo.FindValidGrantsByChild(childID)
	if err != nil {
		return false, err
	}
	for i := range grants {
		if grants[i].CoversContentLesson(contentLessonID) {
			return true, nil
		}
	}
	return false, nil
}

// HasAssessmentAccess 学员是否可参加该测评
func (s *RosterService) HasAssessmentAccess(childID, assessmentID uint) (bool, error) {
	grants, err := s.AccessRepo.FindValidGrantsByChild(childID)
	if err != nil {
		return false, err
	}
	for i := range grants {
		if grants[i].CoversAssessment(assessmentID) {
			return true, nil
		}
	}
	return false, nil
}
