package utils

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"time"

	"bitbucket.org/mmdatafocus/sitework_backend/config"
)

func GetCacheLifespan() time.Duration {
	lifespan, err := strconv.Atoi(os.Getenv("CACHE_LIFESPAN"))
	if err != nil {
		lifespan = 1
	}
	return time.Duration(lifespan) * time.Hour
}

/* generic functions */

func GetTypeName[T any]() string {
	var v T
	typeOfT := reflect.TypeOf(v)
	return typeOfT.Name()
}

/* Redis */

// reference-data models are cached with an expiry; everything else is
// written through on mutation instead
func typeHasExpiration(typeName string) bool {
	expirableTypes := map[string]bool{
		"Employee": true,
		"Project":  true,
	}
	return expirableTypes[typeName]
}

// store instance, obj should be a pointer
func StoreRedis[T any](obj any, id int) error {
	typeName := GetTypeName[T]()
	key := typeName + ":" + fmt.Sprint(id)

	var duration time.Duration
	if typeHasExpiration(typeName) {
		duration = GetCacheLifespan()
	}
	return config.SetRedisObject(key, &obj, duration)
}

// get from redis
// returns nil if does not exist
func RetrieveRedis[T any](id int) (*T, error) {
	var result *T
	key := GetTypeName[T]() + ":" + fmt.Sprint(id)
	exists, err := config.GetRedisObject(key, &result)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, nil
	}
	return result, nil
}

// store list of models per business
func StoreRedisList[T any](obj any, businessId string) error {
	typeName := GetTypeName[T]()
	key := typeName + "List:" + businessId

	var duration time.Duration
	if typeHasExpiration(typeName) {
		duration = GetCacheLifespan()
	}
	return config.SetRedisObject(key, &obj, duration)
}

// get list from redis
// returns nil if does not exist
func RetrieveRedisList[T any](businessId string) ([]*T, error) {
	var results []*T
	key := GetTypeName[T]() + "List:" + businessId
	exists, err := config.GetRedisObject(key, &results)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, nil
	}
	return results, nil
}

// drop the cached instance and the per-business list after a mutation
func ClearModelCache[T any](businessId string, id int) error {
	typeName := GetTypeName[T]()
	return config.RemoveRedisKey(
		typeName+":"+fmt.Sprint(id),
		typeName+"List:"+businessId,
	)
}
